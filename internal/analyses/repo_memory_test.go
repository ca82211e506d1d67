package analyses

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, Analysis{ID: id, UserID: "u1", CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, Analysis{ID: "other", UserID: "u2", CreatedAt: base}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByUser(ctx, "u1", 2, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("unexpected page %v", ids(got))
	}

	got, err = repo.ListByUser(ctx, "u1", 2, 2)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected second page %v", ids(got))
	}

	got, err = repo.ListByUser(ctx, "u1", 10, 5)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty page, got %v err=%v", got, err)
	}
}

func TestMemoryRepoGetMissing(t *testing.T) {
	repo := NewMemoryRepo()
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoCreateIsIdempotentPerID(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	a := Analysis{ID: "a", UserID: "u1"}
	_ = repo.Create(ctx, a)
	_ = repo.Create(ctx, a)
	got, _ := repo.ListByUser(ctx, "u1", 10, 0)
	if len(got) != 1 {
		t.Fatalf("expected one entry, got %d", len(got))
	}
}

func ids(in []Analysis) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		out = append(out, a.ID)
	}
	return out
}

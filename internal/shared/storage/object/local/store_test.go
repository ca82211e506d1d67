package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mime, err := store.Save(ctx, "anonymous", "Jane Doe CV.txt", strings.NewReader("Jane Doe\nReact"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("Jane Doe\nReact")) {
		t.Fatalf("unexpected size %d", size)
	}
	if !strings.HasPrefix(mime, "text/plain") {
		t.Fatalf("unexpected mime %q", mime)
	}
	if !strings.HasSuffix(key, "_Jane Doe CV.txt") {
		t.Fatalf("unexpected key %q", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "Jane Doe\nReact" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, _, _, err := store.Save(ctx, "u", "../etc/passwd", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(key, "..") || !strings.HasSuffix(key, "_passwd") {
		t.Fatalf("expected file name reduced to its base, got %q", key)
	}
	if _, _, _, err := store.Save(ctx, "u", "..", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for dot-only file name")
	}
	if _, err := store.Open(ctx, "../outside"); err == nil {
		t.Fatal("expected error for traversal key")
	}
	if _, err := store.SaveWithKey(ctx, "/abs/path", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for absolute key")
	}
}

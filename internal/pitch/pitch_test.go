package pitch

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"

	"resume-analyzer/internal/shared/metrics"
)

type stubSummarizer struct {
	mu      sync.Mutex
	prompts []string
	out     string
	err     error
}

func (s *stubSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.out, s.err
}

type mapCache struct {
	values map[string]string
	getErr error
}

func (c *mapCache) Get(_ context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key, value string) error {
	c.values[key] = value
	return nil
}

func TestPromptTruncatesToRunes(t *testing.T) {
	text := strings.Repeat("é", MaxPromptRunes+100)
	prompt := Prompt(text)
	if !strings.HasPrefix(prompt, "Summarize this resume into a 2-line professional pitch: ") {
		t.Fatalf("unexpected prompt prefix %q", prompt[:40])
	}
	body := strings.TrimPrefix(prompt, "Summarize this resume into a 2-line professional pitch: ")
	if n := utf8.RuneCountInString(body); n != MaxPromptRunes {
		t.Fatalf("expected %d runes, got %d", MaxPromptRunes, n)
	}
	if !utf8.ValidString(body) {
		t.Fatal("prefix split a rune")
	}
}

func TestPromptShortTextUnchanged(t *testing.T) {
	if got := Prompt("Jane Doe"); got != "Summarize this resume into a 2-line professional pitch: Jane Doe" {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestPitchReturnsSummary(t *testing.T) {
	stub := &stubSummarizer{out: "  Backend engineer.\nShips Go services.  "}
	svc := NewService(stub, nil)

	got := svc.Pitch(context.Background(), "Jane Doe\nGo, Postgres")
	if got != "Backend engineer.\nShips Go services." {
		t.Fatalf("unexpected pitch %q", got)
	}
	if len(stub.prompts) != 1 || !strings.HasSuffix(stub.prompts[0], "Jane Doe\nGo, Postgres") {
		t.Fatalf("unexpected prompts %v", stub.prompts)
	}
}

func TestPitchFallsBackToUnavailable(t *testing.T) {
	cases := []struct {
		name string
		svc  *Service
		text string
	}{
		{name: "nil_service", svc: nil, text: "Jane"},
		{name: "no_summarizer", svc: NewService(nil, nil), text: "Jane"},
		{name: "summarizer_error", svc: NewService(&stubSummarizer{err: errors.New("quota")}, nil), text: "Jane"},
		{name: "empty_answer", svc: NewService(&stubSummarizer{out: "   "}, nil), text: "Jane"},
		{name: "empty_text", svc: NewService(&stubSummarizer{out: "pitch"}, nil), text: "  \n "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.svc.Pitch(context.Background(), tc.text); got != Unavailable {
				t.Fatalf("expected %q, got %q", Unavailable, got)
			}
		})
	}
}

func pitchFailures(t *testing.T) uint64 {
	t.Helper()
	for _, line := range strings.Split(metrics.Render(), "\n") {
		if v, ok := strings.CutPrefix(line, "pitch_failed_total "); ok {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				t.Fatalf("parse pitch_failed_total %q: %v", v, err)
			}
			return n
		}
	}
	t.Fatal("pitch_failed_total missing from metrics")
	return 0
}

func TestPitchFailureCounter(t *testing.T) {
	ctx := context.Background()

	before := pitchFailures(t)
	NewService(nil, nil).Pitch(ctx, "Jane Doe")
	if got := pitchFailures(t); got != before {
		t.Fatalf("missing summarizer counted as a failure: %d -> %d", before, got)
	}

	NewService(&stubSummarizer{err: errors.New("quota")}, nil).Pitch(ctx, "Jane Doe")
	if got := pitchFailures(t); got != before+1 {
		t.Fatalf("expected one failure, got %d -> %d", before, got)
	}
}

func TestPitchUsesCache(t *testing.T) {
	stub := &stubSummarizer{out: "Data scientist."}
	cache := &mapCache{values: map[string]string{}}
	svc := NewService(stub, cache)

	first := svc.Pitch(context.Background(), "pandas numpy")
	second := svc.Pitch(context.Background(), "pandas numpy")
	if first != "Data scientist." || second != first {
		t.Fatalf("unexpected pitches %q %q", first, second)
	}
	if len(stub.prompts) != 1 {
		t.Fatalf("expected one summarizer call, got %d", len(stub.prompts))
	}
	if _, ok := cache.values[CacheKey(Prompt("pandas numpy"))]; !ok {
		t.Fatalf("expected cached entry, got %v", cache.values)
	}
}

func TestPitchIgnoresCacheErrors(t *testing.T) {
	stub := &stubSummarizer{out: "Designer."}
	svc := NewService(stub, &mapCache{values: map[string]string{}, getErr: errors.New("down")})
	if got := svc.Pitch(context.Background(), "figma"); got != "Designer." {
		t.Fatalf("unexpected pitch %q", got)
	}
}

func TestCacheKeyIsStable(t *testing.T) {
	a := CacheKey("x")
	if a != CacheKey("x") || a == CacheKey("y") {
		t.Fatal("expected stable, distinct keys")
	}
	if !strings.HasPrefix(a, "pitch:") || len(a) != len("pitch:")+64 {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	cache, err := NewRedisCache(client, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	if _, _, err := cache.Get(context.Background(), "pitch:k"); err == nil {
		t.Fatal("expected error from unreachable redis")
	}

	svc := NewService(&stubSummarizer{out: "Android dev."}, cache)
	if got := svc.Pitch(context.Background(), "kotlin"); got != "Android dev." {
		t.Fatalf("expected summarizer answer when cache is down, got %q", got)
	}
}

func TestNewRedisCacheRequiresClient(t *testing.T) {
	if _, err := NewRedisCache(nil, 0); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), " ", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

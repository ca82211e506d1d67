package pitch

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/telemetry"
)

const (
	// Unavailable is shown in place of a pitch whenever the summarizer cannot answer.
	Unavailable = "AI Service temporarily unavailable."

	// MaxPromptRunes bounds how much resume text is sent to the summarizer.
	MaxPromptRunes = 2500

	instruction = "Summarize this resume into a 2-line professional pitch: "
)

// ErrNoSummarizer is returned when no AI backend is configured.
var ErrNoSummarizer = errors.New("no summarizer configured")

// Summarizer turns a prompt into a short piece of text.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Cache stores pitches by prompt key. A miss returns ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Service produces the two-line pitch for a resume. The zero value always
// answers Unavailable.
type Service struct {
	Summarizer Summarizer
	Cache      Cache
	Timeout    time.Duration
}

// NewService wires a summarizer and an optional cache.
func NewService(s Summarizer, cache Cache) *Service {
	return &Service{Summarizer: s, Cache: cache, Timeout: 30 * time.Second}
}

// Prompt builds the summarizer prompt from the first MaxPromptRunes runes of text.
func Prompt(text string) string {
	return instruction + prefix(text, MaxPromptRunes)
}

// Pitch returns the summarizer's answer or Unavailable. It never returns an error.
func (s *Service) Pitch(ctx context.Context, text string) string {
	if s == nil || strings.TrimSpace(text) == "" {
		return Unavailable
	}
	prompt := Prompt(text)
	key := CacheKey(prompt)

	if s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			telemetry.Warn("pitch cache read failed", map[string]any{"err": err.Error()})
		} else if ok {
			metrics.IncPitchCacheHit()
			return cached
		}
	}

	out, err := s.summarize(ctx, prompt)
	if err != nil {
		if !errors.Is(err, ErrNoSummarizer) {
			metrics.IncPitchFailed()
			telemetry.Warn("pitch generation failed", map[string]any{"err": err.Error()})
		}
		return Unavailable
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, out); err != nil {
			telemetry.Warn("pitch cache write failed", map[string]any{"err": err.Error()})
		}
	}
	return out
}

func (s *Service) summarize(ctx context.Context, prompt string) (string, error) {
	if s.Summarizer == nil {
		return "", ErrNoSummarizer
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	out, err := s.Summarizer.Summarize(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.New("empty summary")
	}
	return out, nil
}

func prefix(text string, n int) string {
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}

package main

// Analyze a single resume and print the result as JSON:
//   go run ./cmd/analyze [--count 5] [--seed 42] [--no-pitch] resume.pdf

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/analyses/recommendations"
	"resume-analyzer/internal/pitch"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/telemetry"
)

func main() {
	count := flag.Int("count", recommendations.DefaultCount, "number of course recommendations (1-10)")
	seed := flag.Int64("seed", 0, "random seed for recommendations (0 uses the clock)")
	noPitch := flag.Bool("no-pitch", false, "skip the AI pitch")
	user := flag.String("user", analyses.DefaultUserID, "owner recorded on the analysis")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <resume file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, cfg.LogFormat)
	telemetry.SetOutput(os.Stderr, cfg.LogFormat)

	if err := run(context.Background(), cfg, flag.Arg(0), *user, *count, *seed, *noPitch); err != nil {
		telemetry.Error("analyze failed", map[string]any{"file": flag.Arg(0), "err": err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, path, user string, count int, seed int64, noPitch bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := recommendations.NewGenerator(nil, rand.New(rand.NewSource(seed)))

	var pitchSvc *pitch.Service
	if !noPitch && cfg.GeminiAPIKey != "" {
		client, err := pitch.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		pitchSvc = pitch.NewService(client, nil)
	}

	svc := analyses.NewService(analyses.NewMemoryRepo(), nil, gen, pitchSvc)
	analysis, err := svc.AnalyzeBytes(ctx, user, filepath.Base(path), "", data, recommendations.ClampCount(count))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(analysis)
}

package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/fields"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/skills"
)

func TestBuildInMemory(t *testing.T) {
	app, err := Build(context.Background(), config.Config{
		Env:                  "dev",
		LocalStoreDir:        t.TempDir(),
		DefaultResourceCount: 3,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if app.DB != nil || app.Redis != nil {
		t.Fatalf("expected no external connections")
	}
	if _, ok := app.AnalysesRepo.(*analyses.MemoryRepo); !ok {
		t.Fatalf("expected memory repo, got %T", app.AnalysesRepo)
	}
	if app.AnalysesService.DefaultCount != 3 {
		t.Fatalf("expected default count 3, got %d", app.AnalysesService.DefaultCount)
	}
	if app.PitchService.Summarizer != nil {
		t.Fatalf("expected pitches disabled without an API key")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses/text", strings.NewReader(`{"text":"kotlin"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestBuildSelectsMatchers(t *testing.T) {
	app, err := Build(context.Background(), config.Config{
		LocalStoreDir:  t.TempDir(),
		SkillMatch:     "boundary",
		NameRecognizer: "prose",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if _, ok := app.AnalysesService.Detector.(*skills.BoundaryDetector); !ok {
		t.Fatalf("expected boundary detector, got %T", app.AnalysesService.Detector)
	}
	if _, ok := app.AnalysesService.Fields.Recognizer.(fields.ProseRecognizer); !ok {
		t.Fatalf("expected prose recognizer, got %T", app.AnalysesService.Fields.Recognizer)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses/text", strings.NewReader(`{"text":"Read the style guide. Skills: Go, Docker"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var got analyses.Analysis
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, kw := range got.Record.Skills {
		if strings.EqualFold(kw, "ui") {
			t.Fatalf("boundary matching should not find ui in %v", got.Record.Skills)
		}
	}
}

func TestBuildDefaultsToSubstringMatching(t *testing.T) {
	app, err := Build(context.Background(), config.Config{LocalStoreDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if _, ok := app.AnalysesService.Detector.(skills.SubstringDetector); !ok {
		t.Fatalf("expected substring detector, got %T", app.AnalysesService.Detector)
	}
	if _, ok := app.AnalysesService.Fields.Recognizer.(fields.HeuristicRecognizer); !ok {
		t.Fatalf("expected heuristic recognizer, got %T", app.AnalysesService.Fields.Recognizer)
	}
}

func TestBuildWithRedisCache(t *testing.T) {
	app, err := Build(context.Background(), config.Config{
		LocalStoreDir: t.TempDir(),
		RedisAddr:     "127.0.0.1:1",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if app.Redis == nil || app.PitchService.Cache == nil {
		t.Fatalf("expected redis-backed pitch cache")
	}
}

func TestBuildRejectsS3WithoutBucket(t *testing.T) {
	_, err := Build(context.Background(), config.Config{ObjectStoreType: "s3"})
	if err == nil || !strings.Contains(err.Error(), "S3_BUCKET") {
		t.Fatalf("expected bucket error, got %v", err)
	}
}

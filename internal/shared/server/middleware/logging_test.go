package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.SetOutput(&buf, "json")
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout, "json") })

	router := gin.New()
	router.Use(RequestID(), UserScope(), Logging())
	router.POST("/analyses", func(c *gin.Context) {
		c.Set("analysisId", "analysis-1")
		c.Set("track", "android")
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/analyses", nil)
	req.Header.Set("X-User-Id", "user-7")
	req.Header.Set("X-Request-Id", "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json %q: %v", last, err)
	}

	for _, key := range []string{"request_id", "user_id", "analysis_id", "track", "duration_ms", "status", "method", "path"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["user_id"] != "user-7" || payload["request_id"] != "req-1" {
		t.Fatalf("unexpected ids: %v", payload)
	}
	if payload["status"] != float64(http.StatusCreated) {
		t.Fatalf("unexpected status: %v", payload["status"])
	}
}

func TestLoggingSkipsOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.SetOutput(&buf, "json")
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout, "json") })

	router := gin.New()
	router.Use(Logging())
	router.OPTIONS("/analyses", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodOptions, "/analyses", nil))

	if buf.Len() != 0 {
		t.Fatalf("expected no log line, got %q", buf.String())
	}
}

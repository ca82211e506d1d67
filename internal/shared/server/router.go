package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/taxonomy"
)

const (
	rateLimitGroupUpload  = "UPLOAD"
	rateLimitGroupDefault = "DEFAULT"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	Health          *health.Service
	Taxonomy        *taxonomy.Taxonomy
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.UserScope(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})

	tax := deps.Taxonomy
	if tax == nil {
		tax = taxonomy.Default()
	}
	api.GET("/tracks", func(c *gin.Context) {
		respond.OK(c, gin.H{"items": tax.Entries()})
	})

	if deps.AnalysisHandler != nil {
		limited := api.Group("")
		limited.Use(middleware.RateLimit(rateLimitConfig(deps.Config, deps.Limiter)))
		deps.AnalysisHandler.RegisterRoutes(limited)
	}

	return r
}

func rateLimitConfig(cfg config.Config, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	rps, burst := cfg.RateLimitRPS, cfg.RateLimitBurst
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	uploadBurst := burst / 2
	if uploadBurst < 1 {
		uploadBurst = 1
	}
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			rateLimitGroupUpload:  {Rate: rps / 2, Burst: uploadBurst},
			rateLimitGroupDefault: {Rate: rps, Burst: burst},
		},
		DefaultGroup: rateLimitGroupDefault,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost {
				return rateLimitGroupUpload
			}
			return rateLimitGroupDefault
		},
		Limiter: limiter,
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

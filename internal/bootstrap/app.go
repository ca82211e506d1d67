package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/analyses/recommendations"
	"resume-analyzer/internal/fields"
	"resume-analyzer/internal/pitch"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/server"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/storage/db"
	"resume-analyzer/internal/shared/storage/object"
	localstore "resume-analyzer/internal/shared/storage/object/local"
	s3store "resume-analyzer/internal/shared/storage/object/s3"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/skills"
	"resume-analyzer/internal/taxonomy"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Redis           *redis.Client
	Store           object.ObjectStore
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	PitchService    *pitch.Service
	Health          *health.Service
}

// Build prepares dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(ctx, app); err != nil {
		app.Close()
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		Health:          app.Health,
		Taxonomy:        app.AnalysesService.Taxonomy,
		Limiter:         middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database and redis connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	closeDB(a.DB)
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			telemetry.Warn("bootstrap: redis close failed", map[string]any{"err": err.Error()})
		}
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap: DATABASE_URL empty; using in-memory repositories", nil)
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			closeDB(sqlDB)
			sqlDB = nil
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap: database unavailable; using in-memory repositories", map[string]any{"err": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildPitch returns a pitch service whose summarizer is Gemini when an API
// key is configured. Without a key every pitch is the unavailable message.
func buildPitch(ctx context.Context, cfg config.Config) (*pitch.Service, *redis.Client, error) {
	var summarizer pitch.Summarizer
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		client, err := pitch.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		summarizer = client
	} else {
		telemetry.Info("bootstrap: GEMINI_API_KEY empty; pitches disabled", nil)
	}

	var (
		cache       pitch.Cache
		redisClient *redis.Client
	)
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
		})
		redisCache, err := pitch.NewRedisCache(redisClient, cfg.PitchCacheTTL)
		if err != nil {
			_ = redisClient.Close()
			return nil, nil, err
		}
		cache = redisCache
	}

	return pitch.NewService(summarizer, cache), redisClient, nil
}

func buildServices(ctx context.Context, app *App) error {
	var analysisRepo analyses.Repo
	if app.DB != nil {
		analysisRepo = &analyses.PGRepo{DB: app.DB}
	} else {
		analysisRepo = analyses.NewMemoryRepo()
	}

	pitchSvc, redisClient, err := buildPitch(ctx, app.Config)
	if err != nil {
		return err
	}
	app.Redis = redisClient

	analysisSvc := analyses.NewService(analysisRepo, app.Store, recommendations.NewGenerator(nil, nil), pitchSvc)
	analysisSvc.Taxonomy = taxonomy.Default()
	analysisSvc.Detector = skills.NewDetector(app.Config.SkillMatch)
	analysisSvc.Fields = fields.NewExtractor()
	analysisSvc.Fields.Recognizer = fields.NewRecognizer(app.Config.NameRecognizer)
	if n := app.Config.DefaultResourceCount; n > 0 {
		analysisSvc.DefaultCount = recommendations.ClampCount(n)
	}

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}

	app.AnalysesRepo = analysisRepo
	app.PitchService = pitchSvc
	app.AnalysesService = analysisSvc
	app.AnalysisHandler = analyses.NewHandler(analysisSvc)
	app.Health = health.NewService(pinger, pitchSvc.Summarizer != nil)

	if app.AnalysisHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

func closeDB(sqlDB *sql.DB) {
	if sqlDB == nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		telemetry.Warn("bootstrap: database close failed", map[string]any{"err": err.Error()})
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

package main

// Run database migrations:
//   go run ./cmd/migrate [--down] [--version]

import (
	"context"
	"os"

	flag "github.com/spf13/pflag"

	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/storage/db"
	"resume-analyzer/internal/shared/telemetry"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	version := flag.Bool("version", false, "print the current schema version and exit")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("failed to connect database", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch {
	case *version:
		v, err := db.MigrationVersion(ctx, sqlDB)
		if err != nil {
			telemetry.Error("failed to read schema version", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		telemetry.Info("schema version", map[string]any{"version": v})
	case *down:
		if err := db.RollbackMigration(ctx, sqlDB); err != nil {
			telemetry.Error("failed to roll back migration", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
	default:
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			telemetry.Error("failed to run migrations", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
	}
}

package db

import (
	"regexp"
	"strings"
	"time"

	"github.com/archfolio/archfolio/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

func New(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	// Adjust DSN sslmode based on EnableTLS configuration
	dsn := cfg.Database.DSN
	if cfg.Database.EnableTLS {
		sslmodeRegex := regexp.MustCompile(`(?i)\bsslmode\s*=\s*\w+`)
		if sslmodeRegex.MatchString(dsn) {
			dsn = sslmodeRegex.ReplaceAllString(dsn, "sslmode=require")
		} else {
			if !strings.HasSuffix(dsn, " ") {
				dsn += " "
			}
			dsn += "sslmode=require"
		}
	}

	db, err := gorm.Open(postgres.Open(dsn), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdle)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	return db, nil
}

// RegisterOpenTelemetryPlugin registers the OpenTelemetry plugin for GORM.
// Call after telemetry.SetupTracing so the global tracer provider is set.
func RegisterOpenTelemetryPlugin(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin())
}

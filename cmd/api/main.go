package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/archfolio/archfolio/internal/bootstrap"
	"github.com/archfolio/archfolio/internal/config"
	"github.com/archfolio/archfolio/internal/infra/cache"
	"github.com/archfolio/archfolio/internal/infra/db"
	mq "github.com/archfolio/archfolio/internal/infra/queue"
	"github.com/archfolio/archfolio/internal/modules/handler"
	"github.com/archfolio/archfolio/internal/router"
	"github.com/archfolio/archfolio/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title						Archfolio API
// @version					0.0.1
// @description				Portfolio backend for an architecture studio: projects and their images.
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer log.Sync()

	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Fatal("failed to set up tracing", zap.Error(err))
	}
	if tp != nil {
		gormDB := do.MustInvoke[*gorm.DB](inj)
		if err := db.RegisterOpenTelemetryPlugin(gormDB); err != nil {
			log.Fatal("failed to instrument database", zap.Error(err))
		}
		rdb := do.MustInvoke[*redis.Client](inj)
		if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
			log.Fatal("failed to instrument redis", zap.Error(err))
		}
	}

	r := router.NewRouter(router.RouterDeps{
		Config:         cfg,
		Log:            log,
		AuthHandler:    do.MustInvoke[*handler.AuthHandler](inj),
		ProjectHandler: do.MustInvoke[*handler.ProjectHandler](inj),
		ImageHandler:   do.MustInvoke[*handler.ImageHandler](inj),
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if pub, err := do.Invoke[*mq.Publisher](inj); err == nil {
		if err := pub.Close(); err != nil {
			log.Warn("failed to close publisher", zap.Error(err))
		}
	}
	if err := telemetry.Shutdown(ctx); err != nil {
		log.Warn("failed to shut down tracing", zap.Error(err))
	}
	if err := inj.Shutdown(); err != nil {
		log.Warn("container shutdown failed", zap.Error(err))
	}
}

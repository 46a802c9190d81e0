package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/archfolio/archfolio/internal/config"
	"github.com/archfolio/archfolio/internal/infra/blob"
	"github.com/archfolio/archfolio/internal/infra/cache"
	"github.com/archfolio/archfolio/internal/infra/db"
	"github.com/archfolio/archfolio/internal/infra/logger"
	mq "github.com/archfolio/archfolio/internal/infra/queue"
	"github.com/archfolio/archfolio/internal/modules/handler"
	"github.com/archfolio/archfolio/internal/modules/model"
	"github.com/archfolio/archfolio/internal/modules/repo"
	"github.com/archfolio/archfolio/internal/modules/service"
	"github.com/archfolio/archfolio/internal/pkg/utils/filecheck"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := d.AutoMigrate(&model.Project{}, &model.Image{}); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg)
	})

	// project read cache
	do.Provide(inj, func(i *do.Injector) (*cache.ProjectCache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		rdb := do.MustInvoke[*redis.Client](i)
		return cache.NewProjectCache(rdb, cfg), nil
	})

	// RabbitMQ DialFunc for connection setup
	do.Provide(inj, func(i *do.Injector) (mq.DialFunc, error) {
		cfg := do.MustInvoke[*config.Config](i)

		dialFn := func() (*amqp.Connection, error) {
			useTLS := cfg.RabbitMQ.EnableTLS || strings.HasPrefix(cfg.RabbitMQ.URL, "amqps://")
			if useTLS {
				tlsConfig := &tls.Config{
					MinVersion: tls.VersionTLS12,
				}
				url := cfg.RabbitMQ.URL
				if strings.HasPrefix(url, "amqp://") {
					url = strings.Replace(url, "amqp://", "amqps://", 1)
				}
				return amqp.DialTLS(url, tlsConfig)
			}
			return amqp.Dial(cfg.RabbitMQ.URL)
		}
		return dialFn, nil
	})

	// RabbitMQ Connection
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		dialFn := do.MustInvoke[mq.DialFunc](i)
		return dialFn()
	})

	// RabbitMQ Publisher
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		conn := do.MustInvoke[*amqp.Connection](i)
		log := do.MustInvoke[*zap.Logger](i)
		return mq.NewPublisher(conn, log, cfg)
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// file validator
	do.Provide(inj, func(i *do.Injector) (*filecheck.Validator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return filecheck.New(cfg), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.Factory, error) {
		return repo.NewFactory(
			do.MustInvoke[*gorm.DB](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ImageUploader, error) {
		return service.NewImageUploader(
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.Factory](i),
			do.MustInvoke[service.ImageUploader](i),
			do.MustInvoke[*cache.ProjectCache](i),
			do.MustInvoke[*mq.Publisher](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ImageService, error) {
		return service.NewImageService(
			do.MustInvoke[repo.Factory](i),
			do.MustInvoke[service.ImageUploader](i),
			do.MustInvoke[*cache.ProjectCache](i),
			do.MustInvoke[*mq.Publisher](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.AuthService, error) {
		return service.NewAuthService(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(
			do.MustInvoke[service.ProjectService](i),
			do.MustInvoke[*filecheck.Validator](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ImageHandler, error) {
		return handler.NewImageHandler(
			do.MustInvoke[service.ImageService](i),
			do.MustInvoke[*filecheck.Validator](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.AuthHandler, error) {
		return handler.NewAuthHandler(do.MustInvoke[service.AuthService](i)), nil
	})
	return inj
}

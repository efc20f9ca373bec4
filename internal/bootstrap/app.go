package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"markmycampus/internal/app"
	"markmycampus/internal/auth"
	"markmycampus/internal/config"
	"markmycampus/internal/logging"
	"markmycampus/internal/platform/database"
	rabbitmqClient "markmycampus/internal/platform/rabbitmq"
	redisClient "markmycampus/internal/platform/redis"
	"markmycampus/internal/repository"
	"markmycampus/internal/session"
	"markmycampus/internal/worker"
)

type App struct {
	Config *config.Config
	Log    *logrus.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	Tokens   *auth.TokenService
	Sessions session.Store
	// Publisher is nil when RabbitMQ is disabled.
	Publisher         app.MarkerEventPublisher
	MarkerEventWorker *worker.MarkerEventWorker

	StartedAt time.Time
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.New(cfg.Log)
	a := &App{Config: cfg, Log: log}

	if insecure := cfg.InsecureDefaults(); len(insecure) > 0 {
		log.WithField("settings", strings.Join(insecure, ",")).Warn("using built-in default secrets; override them outside development")
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DB = db
	if err := database.Migrate(db); err != nil {
		_ = a.Close()
		return nil, err
	}

	tokenTTL := time.Duration(cfg.Auth.JWTExpireMinute) * time.Minute
	a.Tokens = auth.NewTokenService(
		cfg.Auth.JWTSecret,
		auth.WithTTL(tokenTTL),
		auth.WithAdminSecret(cfg.Auth.AdminJWTSecret),
	)

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Redis = redisCli
		a.Sessions = session.NewRedisStore(redisCli, tokenTTL)
	} else {
		a.Sessions = session.NewMemoryStore(tokenTTL)
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.MQConn = mqConn
		a.Publisher = rabbitmqClient.NewMarkerEventPublisher(mqConn, cfg.RabbitMQ.MarkerEventQueue)

		eventRepo := repository.NewMarkerEventRepository(db)
		a.MarkerEventWorker = worker.NewMarkerEventWorker(mqConn, eventRepo, cfg.RabbitMQ.MarkerEventQueue, log)
		if err := a.MarkerEventWorker.Start(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("start marker event worker failed: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		"db_driver": cfg.Database.Driver,
		"redis":     cfg.Redis.Enabled,
		"rabbitmq":  cfg.RabbitMQ.Enabled,
	}).Info("application resources ready")

	a.StartedAt = time.Now()
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var closeErr error
	if a.MarkerEventWorker != nil {
		a.MarkerEventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}

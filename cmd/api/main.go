package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"reviewhub/proj/internal/config"
	"reviewhub/proj/internal/lib/logger"
	"reviewhub/proj/internal/lib/metrics"
	"reviewhub/proj/internal/lib/ratelimit"
	"reviewhub/proj/internal/mails"
	"reviewhub/proj/internal/services"
	"reviewhub/proj/internal/storage/memory"
	"reviewhub/proj/internal/storage/postgres"
	"reviewhub/proj/internal/storage/postgres/models"

	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)

	storage, closeStorage, err := openStorage(cfg, log)
	if err != nil {
		log.Error("failed to open storage", "storage", cfg.Storage, "err", err)
		os.Exit(1)
	}
	defer closeStorage()

	limiter, closeLimiter := newLimiter(cfg, log)
	defer closeLimiter()

	mailer := mails.New(
		cfg.SMTPServer.Host,
		cfg.SMTPServer.Port,
		cfg.SMTPServer.Timeout,
		cfg.SMTPServer.Username,
		cfg.SMTPServer.Password,
		cfg.SMTPServer.Sender,
	)
	svcs := services.New(log, cfg, storage, mailer)
	app := NewApplication(cfg, log, svcs, limiter, metrics.New())
	if err := app.serve(); err != nil {
		log.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

func openStorage(cfg *config.Config, log *slog.Logger) (services.Storage, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, data will be lost on exit")
		st := memory.New()
		return services.Storage{
			Users:      st.Users,
			Categories: st.Categories,
			Genres:     st.Genres,
			Titles:     st.Titles,
			Reviews:    st.Reviews,
			Comments:   st.Comments,
		}, func() {}, nil
	}

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.Dsn); err != nil {
			return services.Storage{}, nil, err
		}
		log.Info("database migrations applied")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		return services.Storage{}, nil, err
	}
	log.Info("database connection established")
	m := models.New(db)
	return services.Storage{
		Users:      m.Users,
		Categories: m.Categories,
		Genres:     m.Genres,
		Titles:     m.Titles,
		Reviews:    m.Reviews,
		Comments:   m.Comments,
	}, db.Close, nil
}

func newLimiter(cfg *config.Config, log *slog.Logger) (ratelimit.Limiter, func()) {
	if !cfg.Limiter.Enabled {
		return nil, func() {}
	}
	if cfg.Limiter.Backend == config.LimiterBackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Info("using redis rate limiter", "addr", cfg.Redis.Addr)
		return ratelimit.NewRedis(client, cfg.Limiter.Rps, cfg.Limiter.Burst), func() { client.Close() }
	}
	return ratelimit.NewMemory(cfg.Limiter.Rps, cfg.Limiter.Burst), func() {}
}

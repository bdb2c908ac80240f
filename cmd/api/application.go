package main

import (
	"log/slog"

	"reviewhub/proj/internal/config"
	"reviewhub/proj/internal/lib/metrics"
	"reviewhub/proj/internal/lib/ratelimit"
	"reviewhub/proj/internal/services"

	"github.com/gorilla/schema"
)

type Application struct {
	cfg          *config.Config
	log          *slog.Logger
	Http         *Http
	Services     *services.Services
	limiter      ratelimit.Limiter
	metrics      *metrics.Metrics
	queryDecoder *schema.Decoder
}

func NewApplication(
	cfg *config.Config,
	log *slog.Logger,
	svcs *services.Services,
	limiter ratelimit.Limiter,
	m *metrics.Metrics,
) *Application {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &Application{
		cfg:          cfg,
		log:          log,
		Services:     svcs,
		limiter:      limiter,
		metrics:      m,
		queryDecoder: decoder,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}

package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpulse/internal/clients/stockapi"
	"github.com/aristath/stockpulse/internal/config"
	"github.com/aristath/stockpulse/internal/events"
	"github.com/aristath/stockpulse/internal/modules/correlation"
	"github.com/aristath/stockpulse/internal/modules/stocks"
	"github.com/aristath/stockpulse/internal/scheduler"
)

// InitializeServices creates every client and service and stores them in a new container
func InitializeServices(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	container := &Container{Config: cfg}

	// Clients
	container.StockClient = stockapi.NewClient(cfg.StockAPIBaseURL, cfg.StockAPITimeout, log)

	// Events
	container.EventBus = events.NewBus(log)
	container.EventManager = events.NewManager(container.EventBus, log)

	// Services
	container.CorrelationStore = correlation.NewStore(log)
	container.CorrelationService = correlation.NewService(
		container.StockClient,
		container.CorrelationStore,
		container.EventManager,
		cfg.FetchConcurrency,
		log,
	)
	container.StocksService = stocks.NewService(container.StockClient, log)

	// Scheduler
	container.Scheduler = scheduler.New(log)

	log.Info().
		Str("stock_api", cfg.StockAPIBaseURL).
		Int("fetch_concurrency", cfg.FetchConcurrency).
		Msg("Services initialized")

	return container, nil
}

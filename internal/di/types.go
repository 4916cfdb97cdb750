/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the server for access to services.
 */
package di

import (
	"github.com/aristath/stockpulse/internal/clients/stockapi"
	"github.com/aristath/stockpulse/internal/config"
	"github.com/aristath/stockpulse/internal/events"
	"github.com/aristath/stockpulse/internal/modules/correlation"
	"github.com/aristath/stockpulse/internal/modules/stocks"
	"github.com/aristath/stockpulse/internal/scheduler"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Clients: the stock data service client
 * - Events: in-process bus and the manager that logs and publishes on it
 * - Services: correlation refresh + snapshot store, stock charts
 * - Scheduler: cron wrapper running the refresh job
 */
type Container struct {
	Config *config.Config

	// Clients
	StockClient *stockapi.Client // Stock data service client

	// Events
	EventBus     *events.Bus     // Event bus for pub/sub
	EventManager *events.Manager // Event manager (wraps bus)

	// Services
	CorrelationStore   *correlation.Store   // Latest snapshot per window
	CorrelationService *correlation.Service // Refresh cycles
	StocksService      *stocks.Service      // Universe and charts

	// Scheduling
	Scheduler *scheduler.Scheduler
}

// JobInstances holds job references for manual triggering
type JobInstances struct {
	RefreshCorrelations *scheduler.RefreshCorrelationsJob
}

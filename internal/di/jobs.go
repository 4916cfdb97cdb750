package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpulse/internal/scheduler"
)

// RegisterJobs creates the background jobs and registers them with the scheduler.
// ctx bounds every job run; cancel it on shutdown.
func RegisterJobs(ctx context.Context, container *Container, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	cfg := container.Config
	instances := &JobInstances{}

	instances.RefreshCorrelations = scheduler.NewRefreshCorrelationsJob(
		ctx,
		container.CorrelationService,
		container.EventManager,
		cfg.RefreshWindows,
		cfg.RefreshTimeout,
	)
	instances.RefreshCorrelations.SetLogger(log)

	if err := container.Scheduler.AddJob(cfg.RefreshSchedule, instances.RefreshCorrelations); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", instances.RefreshCorrelations.Name(), err)
	}

	return instances, nil
}

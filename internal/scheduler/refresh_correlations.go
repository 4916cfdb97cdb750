package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpulse/internal/domain"
	"github.com/aristath/stockpulse/internal/events"
)

// DefaultRefreshTimeout bounds a single window refresh
const DefaultRefreshTimeout = 45 * time.Second

// RefreshCorrelationsJob refreshes and publishes the correlation snapshot of every configured window
type RefreshCorrelationsJob struct {
	log          zerolog.Logger
	refresher    CorrelationRefresherInterface
	eventManager EventManagerInterface
	windows      []domain.TimeWindow
	timeout      time.Duration
	ctx          context.Context
}

// NewRefreshCorrelationsJob creates a new RefreshCorrelationsJob.
// ctx is the parent of every run; cancelling it aborts in-flight refreshes.
func NewRefreshCorrelationsJob(
	ctx context.Context,
	refresher CorrelationRefresherInterface,
	eventManager EventManagerInterface,
	windows []domain.TimeWindow,
	timeout time.Duration,
) *RefreshCorrelationsJob {
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	if len(windows) == 0 {
		windows = []domain.TimeWindow{domain.DefaultTimeWindow}
	}
	return &RefreshCorrelationsJob{
		log:          zerolog.Nop(),
		refresher:    refresher,
		eventManager: eventManager,
		windows:      windows,
		timeout:      timeout,
		ctx:          ctx,
	}
}

// SetLogger sets the logger for the job
func (j *RefreshCorrelationsJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *RefreshCorrelationsJob) Name() string {
	return "refresh_correlations"
}

// Run refreshes every window in turn. Failures do not stop later windows; they are
// emitted as REFRESH_FAILED and returned joined.
func (j *RefreshCorrelationsJob) Run() error {
	var errs []error

	for _, window := range j.windows {
		if err := j.refresh(window); err != nil {
			errs = append(errs, err)
			if j.eventManager != nil {
				j.eventManager.EmitTyped("scheduler", &events.RefreshFailedData{
					Window: window.Minutes(),
					Error:  err.Error(),
				})
			}
		}
	}

	return errors.Join(errs...)
}

func (j *RefreshCorrelationsJob) refresh(window domain.TimeWindow) error {
	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()

	snapshot, err := j.refresher.RefreshAndPublish(ctx, window)
	if err != nil {
		return fmt.Errorf("window %s: %w", window, err)
	}

	j.log.Info().
		Int("window", window.Minutes()).
		Uint64("generation", snapshot.Generation).
		Int("tickers", len(snapshot.Tickers)).
		Msg("Correlations refreshed")
	return nil
}

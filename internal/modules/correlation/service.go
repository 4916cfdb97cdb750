package correlation

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/stockpulse/internal/domain"
	"github.com/aristath/stockpulse/internal/events"
	"github.com/aristath/stockpulse/internal/utils"
)

// DefaultFetchConcurrency bounds parallel history fetches per refresh
const DefaultFetchConcurrency = 8

// generation is allocated at the start of every refresh cycle in the process
var generation atomic.Uint64

func nextGeneration() uint64 {
	return generation.Add(1)
}

// Service runs refresh cycles: fetch the universe and histories, build the matrix, publish.
type Service struct {
	provider     domain.StockDataProvider
	store        *Store
	eventManager *events.Manager
	concurrency  int
	log          zerolog.Logger
}

// NewService creates a new correlation service.
// eventManager may be nil, in which case no events are emitted.
func NewService(
	provider domain.StockDataProvider,
	store *Store,
	eventManager *events.Manager,
	concurrency int,
	log zerolog.Logger,
) *Service {
	if concurrency < 1 {
		concurrency = DefaultFetchConcurrency
	}
	return &Service{
		provider:     provider,
		store:        store,
		eventManager: eventManager,
		concurrency:  concurrency,
		log:          log.With().Str("service", "correlation").Logger(),
	}
}

// Store returns the snapshot store the service publishes to
func (s *Service) Store() *Store {
	return s.store
}

// Refresh fetches fresh data for window and computes a new snapshot without publishing it.
// Upstream failures degrade to empty histories; only a cancelled context returns an error.
func (s *Service) Refresh(ctx context.Context, window domain.TimeWindow) (*Snapshot, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidTimeWindow, window)
	}

	gen := nextGeneration()
	timer := utils.NewTimer("refresh_correlations", s.log)

	stocks := s.provider.GetStocks(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("refresh of %s cancelled: %w", window, err)
	}
	stocks = uniqueStocks(stocks)
	tickers := domain.Tickers(stocks)

	histories, err := s.fetchHistories(ctx, tickers, window)
	if err != nil {
		return nil, fmt.Errorf("refresh of %s cancelled: %w", window, err)
	}

	snapshot := &Snapshot{
		ID:         uuid.New().String(),
		Generation: gen,
		Window:     window,
		Stocks:     stocks,
		Tickers:    tickers,
		Matrix:     BuildMatrix(tickers, histories),
		Stats:      BuildStats(tickers, histories),
		ComputedAt: time.Now(),
	}
	snapshot.Duration = timer.Stop()
	snapshot.DurationMs = snapshot.Duration.Milliseconds()

	s.log.Debug().
		Int("window", window.Minutes()).
		Uint64("generation", gen).
		Int("tickers", len(tickers)).
		Dur("duration", snapshot.Duration).
		Msg("Computed correlation snapshot")

	return snapshot, nil
}

// fetchHistories fetches every ticker's history concurrently and waits for all of them
func (s *Service) fetchHistories(ctx context.Context, tickers []string, window domain.TimeWindow) (map[string][]float64, error) {
	results := make([][]float64, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, ticker := range tickers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = domain.Prices(s.provider.GetPriceHistory(gctx, ticker, window))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	histories := make(map[string][]float64, len(tickers))
	for i, ticker := range tickers {
		histories[ticker] = results[i]
	}
	return histories, nil
}

// RefreshAndPublish refreshes window and publishes the result.
// It returns the snapshot held by the store afterwards, which is an older-generation
// winner only if a newer cycle already published.
func (s *Service) RefreshAndPublish(ctx context.Context, window domain.TimeWindow) (*Snapshot, error) {
	snapshot, err := s.Refresh(ctx, window)
	if err != nil {
		return nil, err
	}

	if len(snapshot.Tickers) == 0 {
		s.log.Warn().Int("window", window.Minutes()).Msg("Stock universe is empty")
		s.emit(&events.UniverseEmptyData{Window: window.Minutes()})
	}

	if !s.store.Publish(snapshot) {
		if latest, ok := s.store.Latest(window); ok {
			return latest, nil
		}
		return snapshot, nil
	}

	s.emit(&events.CorrelationsUpdatedData{
		Window:     window.Minutes(),
		Generation: snapshot.Generation,
		SnapshotID: snapshot.ID,
		Tickers:    len(snapshot.Tickers),
		ComputedAt: snapshot.ComputedAt,
		DurationMs: snapshot.DurationMs,
	})

	return snapshot, nil
}

// Current returns the stored snapshot for window, refreshing first when there is none
// or it is older than maxAge.
func (s *Service) Current(ctx context.Context, window domain.TimeWindow, maxAge time.Duration) (*Snapshot, error) {
	if snapshot, ok := s.store.Latest(window); ok && snapshot.Age(time.Now()) <= maxAge {
		return snapshot, nil
	}
	return s.RefreshAndPublish(ctx, window)
}

func (s *Service) emit(data events.EventData) {
	if s.eventManager == nil {
		return
	}
	s.eventManager.EmitTyped("correlation", data)
}

// uniqueStocks drops entries with empty or repeated tickers, keeping order
func uniqueStocks(stocks []domain.Stock) []domain.Stock {
	seen := make(map[string]bool, len(stocks))
	out := make([]domain.Stock, 0, len(stocks))
	for _, st := range stocks {
		if st.Ticker == "" || seen[st.Ticker] {
			continue
		}
		seen[st.Ticker] = true
		out = append(out, st)
	}
	return out
}

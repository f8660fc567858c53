package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/metrics"
	"medminder/internal/models"
	"medminder/internal/state"
)

// DefaultLatency is the artificial delay of every simulated remote call.
const DefaultLatency = 700 * time.Millisecond

// Latency is a fixed delay that gives up when the context is done.
type Latency time.Duration

// Wait blocks for the delay or until ctx is cancelled.
func (l Latency) Wait(ctx context.Context) error {
	if l <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(l))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options configures the simulated services.
type Options struct {
	Latency      time.Duration
	MaxFileBytes int64
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
}

// base carries what every entity service shares.
type base struct {
	container *state.Container
	latency   Latency
	logger    *zap.Logger
	metrics   *metrics.Metrics
	entity    string
}

func newBase(c *state.Container, opts Options, entity string) base {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		container: c,
		latency:   Latency(opts.Latency),
		logger:    logger.With(zap.String("entity", entity), zap.String("user_id", c.UserID())),
		metrics:   opts.Metrics,
		entity:    entity,
	}
}

// observe records the outcome of one operation.
func (b base) observe(op string, start time.Time, err error) {
	if b.metrics == nil {
		return
	}
	b.metrics.ServiceOps.WithLabelValues(b.entity, op, metrics.Outcome(err)).Inc()
	b.metrics.ServiceLatency.WithLabelValues(b.entity, op).Observe(time.Since(start).Seconds())
	if apperrors.GetCode(err) == apperrors.CodeStale {
		b.metrics.StaleResults.WithLabelValues(b.entity).Inc()
	}
}

// fetch runs the shared fetch protocol: raise the loading flag, wait, lower
// it, then discard the result if a navigation happened meanwhile.
func (b base) fetch(ctx context.Context, loadingFlag func(*models.AppState) *bool) error {
	generation := b.container.Generation()

	b.container.Mutate(func(s *models.AppState) { *loadingFlag(s) = true })
	err := b.latency.Wait(ctx)
	b.container.Mutate(func(s *models.AppState) { *loadingFlag(s) = false })
	if err != nil {
		return err
	}

	if b.container.Generation() != generation {
		return apperrors.ErrStale
	}
	return nil
}

// indexOf returns the position of the item whose id matches, or -1.
func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// checkClock rejects a dose time the scheduler could never fire.
func checkClock(value string) error {
	if _, _, err := models.ParseClock(value); err != nil {
		return apperrors.Validation("Please enter a valid time (HH:MM).")
	}
	return nil
}

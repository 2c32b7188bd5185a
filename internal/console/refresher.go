package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultRefreshInterval is how often views are reloaded while watching.
const DefaultRefreshInterval = 5 * time.Minute

// RefreshFunc reloads a view.
type RefreshFunc func(ctx context.Context) error

// Refresher runs a RefreshFunc on a fixed interval until stopped. At most one
// run is in flight; ticks that arrive while a run is active are skipped.
type Refresher struct {
	interval time.Duration
	fn       RefreshFunc
	logger   *zap.Logger
	onError  func(error)

	inFlight atomic.Bool
	mu       sync.Mutex
	cron     *cron.Cron
	cancel   context.CancelFunc
}

// RefresherOption customizes a Refresher.
type RefresherOption func(*Refresher)

// WithRefreshLogger sets the refresher logger.
func WithRefreshLogger(logger *zap.Logger) RefresherOption {
	return func(r *Refresher) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithErrorHandler is called with every failed scheduled run.
func WithErrorHandler(fn func(error)) RefresherOption {
	return func(r *Refresher) { r.onError = fn }
}

// NewRefresher builds a stopped refresher. Intervals under a second are
// raised to one second.
func NewRefresher(interval time.Duration, fn RefreshFunc, opts ...RefresherOption) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if interval < time.Second {
		interval = time.Second
	}
	r := &Refresher{interval: interval, fn: fn, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start schedules the refresh. Starting a running refresher is an error.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return errors.New("refresher already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	logger := cronLogger{sugar: r.logger.Sugar()}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", r.interval), func() { r.tick(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule refresh: %w", err)
	}
	c.Start()
	r.cron, r.cancel = c, cancel
	return nil
}

// Stop cancels any in-flight run and waits for it to return.
func (r *Refresher) Stop() {
	r.mu.Lock()
	c, cancel := r.cron, r.cancel
	r.cron, r.cancel = nil, nil
	r.mu.Unlock()
	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
}

// Running reports whether the refresher is scheduled.
func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cron != nil
}

// RunNow performs a refresh immediately unless one is already in flight.
func (r *Refresher) RunNow(ctx context.Context) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer r.inFlight.Store(false)
	return r.fn(ctx)
}

func (r *Refresher) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	err := r.RunNow(ctx)
	switch {
	case err == nil, errors.Is(err, ErrBusy):
	case errors.Is(err, context.Canceled), errors.Is(err, ErrSessionChanged):
	default:
		r.logger.Warn("refresh failed", zap.Error(err))
		if r.onError != nil {
			r.onError(err)
		}
	}
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

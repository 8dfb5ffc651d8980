// Package scanwatch tracks one asynchronous server-side scan by periodic
// status polling. The server has no push channel for scan completion, so a
// fixed-interval poll is the contract: first poll immediately, then one per
// interval, fail-open on errors since every tick re-checks the same
// idempotent terminal state.
package scanwatch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campground/campground/internal/api"
)

// DefaultInterval is the poll period used when none is configured.
const DefaultInterval = 5 * time.Second

// ProgressFetcher is the slice of the API client the poller needs.
type ProgressFetcher interface {
	ScanProgress(ctx context.Context, projectID, scanID string) (*api.Progress, error)
}

// Config configures a Poller for one (project, scan) pair.
type Config struct {
	ProjectID string
	ScanID    string
	Interval  time.Duration

	// OnProgress is called after every successful poll, terminal or not.
	// Optional.
	OnProgress func(api.Progress)

	// OnComplete is called exactly once, on the first poll that observes a
	// terminal state. Optional.
	OnComplete func(scanID string)
}

// Poller polls scan progress until the scan reaches a terminal state, the
// context is cancelled, or Stop is called. A Poller runs at most one loop;
// create a new one per scan.
type Poller struct {
	cfg     Config
	fetcher ProgressFetcher
	logger  zerolog.Logger

	startOnce    sync.Once
	stopOnce     sync.Once
	completeOnce sync.Once

	stopCh chan struct{}
	doneCh chan struct{}

	mu   sync.Mutex
	last *api.Progress
}

// New creates a poller. A zero Interval means DefaultInterval.
func New(fetcher ProgressFetcher, cfg Config, logger zerolog.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Poller{
		cfg:     cfg,
		fetcher: fetcher,
		logger: logger.With().
			Str("projectId", cfg.ProjectID).
			Str("scanId", cfg.ScanID).
			Logger(),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start launches the polling loop. The first poll fires immediately, with no
// initial delay. Subsequent calls to Start are no-ops.
func (p *Poller) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		go p.run(ctx)
	})
}

// Stop ends the loop without waiting for it to exit. Idempotent. Stopping
// the poller does not cancel the server-side scan; that is a separate,
// explicit API call.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
}

// Wait blocks until the polling loop has exited.
func (p *Poller) Wait() {
	<-p.doneCh
}

// Last returns the most recently observed progress, nil before the first
// successful poll.
func (p *Poller) Last() *api.Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return nil
	}
	last := *p.last
	return &last
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	if p.poll(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug().Msg("scan watch cancelled")
			return
		case <-p.stopCh:
			p.logger.Debug().Msg("scan watch stopped")
			return
		case <-ticker.C:
			if p.poll(ctx) {
				return
			}
		}
	}
}

// poll performs one status fetch. It returns true when polling should stop.
// Fetch errors are logged and swallowed; the next tick retries.
func (p *Poller) poll(ctx context.Context) bool {
	progress, err := p.fetcher.ScanProgress(ctx, p.cfg.ProjectID, p.cfg.ScanID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		p.logger.Warn().Err(err).Msg("scan progress poll failed")
		return false
	}

	p.mu.Lock()
	p.last = progress
	p.mu.Unlock()

	if p.cfg.OnProgress != nil {
		p.cfg.OnProgress(*progress)
	}

	if !progress.Terminal() {
		return false
	}

	// A late response racing Stop must not re-fire the callback.
	p.completeOnce.Do(func() {
		p.logger.Debug().Str("status", progress.Status).Msg("scan reached terminal state")
		if p.cfg.OnComplete != nil {
			p.cfg.OnComplete(p.cfg.ScanID)
		}
	})
	return true
}

package scanwatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campground/campground/internal/api"
)

// scriptedFetcher replays a fixed sequence of responses, then repeats the
// last one. A nil entry yields an error for that call.
type scriptedFetcher struct {
	mu     sync.Mutex
	script []*api.Progress
	calls  int
}

func (f *scriptedFetcher) ScanProgress(ctx context.Context, projectID, scanID string) (*api.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	f.calls++

	if f.script[i] == nil {
		return nil, errors.New("poll failed")
	}
	p := *f.script[i]
	return &p, nil
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestPollerTerminalTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("completion callback fires exactly once then polling stops", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: []*api.Progress{
			{Progress: 40, Status: api.StatusRunning, IsActive: true},
			{Progress: 100, Status: api.StatusCompleted, IsActive: false},
		}}

		var mu sync.Mutex
		var completions []string
		var seen []int

		p := New(fetcher, Config{
			ProjectID: "proj-1",
			ScanID:    "scan-1",
			Interval:  10 * time.Millisecond,
			OnProgress: func(pr api.Progress) {
				mu.Lock()
				seen = append(seen, pr.Progress)
				mu.Unlock()
			},
			OnComplete: func(scanID string) {
				mu.Lock()
				completions = append(completions, scanID)
				mu.Unlock()
			},
		}, zerolog.Nop())

		p.Start(ctx)
		p.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, []string{"scan-1"}, completions, "callback must fire exactly once, with the scan id")
		require.Equal(t, []int{40, 100}, seen)
		require.Equal(t, 2, fetcher.callCount())

		// No further polling after the terminal state.
		time.Sleep(50 * time.Millisecond)
		require.Equal(t, 2, fetcher.callCount())
	})

	t.Run("first poll fires immediately", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: []*api.Progress{
			{Progress: 100, Status: api.StatusCompleted, IsActive: false},
		}}

		p := New(fetcher, Config{ProjectID: "proj-1", ScanID: "scan-1", Interval: time.Hour}, zerolog.Nop())

		start := time.Now()
		p.Start(ctx)
		p.Wait()
		require.Less(t, time.Since(start), time.Second, "terminal first poll must not wait for the interval")
		require.Equal(t, 1, fetcher.callCount())
	})

	t.Run("poll errors are swallowed and the next tick retries", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: []*api.Progress{
			nil, // first poll fails
			{Progress: 60, Status: api.StatusRunning, IsActive: true},
			{Progress: 100, Status: api.StatusCompleted, IsActive: false},
		}}

		var completed int
		var mu sync.Mutex
		p := New(fetcher, Config{
			ProjectID: "proj-1",
			ScanID:    "scan-1",
			Interval:  10 * time.Millisecond,
			OnComplete: func(string) {
				mu.Lock()
				completed++
				mu.Unlock()
			},
		}, zerolog.Nop())

		p.Start(ctx)
		p.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, 1, completed)
		require.Equal(t, 3, fetcher.callCount())
	})

	t.Run("inactive flag alone is terminal", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: []*api.Progress{
			{Progress: 10, Status: api.StatusRunning, IsActive: false},
		}}

		p := New(fetcher, Config{ProjectID: "proj-1", ScanID: "scan-1", Interval: 10 * time.Millisecond}, zerolog.Nop())
		p.Start(ctx)
		p.Wait()
		require.Equal(t, 1, fetcher.callCount())
	})
}

func TestPollerStop(t *testing.T) {
	t.Run("stop ends the loop without a completion callback", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: []*api.Progress{
			{Progress: 10, Status: api.StatusRunning, IsActive: true},
		}}

		var completed int
		var mu sync.Mutex
		p := New(fetcher, Config{
			ProjectID: "proj-1",
			ScanID:    "scan-1",
			Interval:  10 * time.Millisecond,
			OnComplete: func(string) {
				mu.Lock()
				completed++
				mu.Unlock()
			},
		}, zerolog.Nop())

		p.Start(context.Background())
		time.Sleep(25 * time.Millisecond)
		p.Stop()
		p.Stop() // idempotent
		p.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Zero(t, completed)
	})

	t.Run("context cancellation ends the loop", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: []*api.Progress{
			{Progress: 10, Status: api.StatusRunning, IsActive: true},
		}}

		ctx, cancel := context.WithCancel(context.Background())
		p := New(fetcher, Config{ProjectID: "proj-1", ScanID: "scan-1", Interval: 10 * time.Millisecond}, zerolog.Nop())
		p.Start(ctx)
		cancel()
		p.Wait()
	})

	t.Run("last progress is retained after the loop exits", func(t *testing.T) {
		fetcher := &scriptedFetcher{script: []*api.Progress{
			{Progress: 100, Status: api.StatusFailed, IsActive: false},
		}}

		p := New(fetcher, Config{ProjectID: "proj-1", ScanID: "scan-1"}, zerolog.Nop())
		require.Nil(t, p.Last())

		p.Start(context.Background())
		p.Wait()

		last := p.Last()
		require.NotNil(t, last)
		require.Equal(t, api.StatusFailed, last.Status)
	})
}

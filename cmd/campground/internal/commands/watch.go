package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campground/campground/internal/api"
	"github.com/campground/campground/internal/scanwatch"
)

type WatchCmd struct {
	ProjectID string        `arg:"" help:"Project id the scan belongs to"`
	ScanID    string        `arg:"" help:"Scan id to watch"`
	Interval  time.Duration `help:"Poll interval (default 5s)"`
}

func (w *WatchCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}
	warnExpiredToken(e.sess)

	// Flag wins over the config file; the poller applies its own default
	// when both are unset.
	interval := w.Interval
	if interval <= 0 {
		interval = e.interval
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupts
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("Received interrupt signal, shutting down...")
		cancel()
	}()

	fmt.Printf("Watching scan %s on project %s\n", w.ScanID, w.ProjectID)

	poller := scanwatch.New(e.client, scanwatch.Config{
		ProjectID: w.ProjectID,
		ScanID:    w.ScanID,
		Interval:  interval,
		OnProgress: func(p api.Progress) {
			line := fmt.Sprintf("[%s] %3d%% %s",
				time.Now().Format("15:04:05"), p.Progress, statusBadge(p.Status))
			if p.Phase != "" {
				line += " (" + p.Phase + ")"
			}
			fmt.Println(line)
		},
		OnComplete: func(scanID string) {
			fmt.Printf("Scan %s finished\n", scanID)
		},
	}, e.logger)

	poller.Start(ctx)
	poller.Wait()

	if last := poller.Last(); last != nil && last.Status == api.StatusFailed {
		return fmt.Errorf("scan %s failed", w.ScanID)
	}

	return nil
}

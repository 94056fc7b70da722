// Package maintenance runs the periodic background chores of the service.
package maintenance

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Janitor truncates the channel log files on a fixed interval so long-running
// deployments do not fill the disk. Truncation errors are logged and the loop
// keeps running.
type Janitor struct {
	files    []string
	interval time.Duration
	log      *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJanitor builds a janitor over the given files. A nil logger discards
// diagnostics.
func NewJanitor(files []string, interval time.Duration, log *zap.Logger) *Janitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Janitor{files: files, interval: interval, log: log}
}

// Start launches the cleanup loop. It is a no-op when there are no files to
// manage or the interval is not positive.
func (j *Janitor) Start(ctx context.Context) {
	if len(j.files) == 0 || j.interval <= 0 {
		return
	}

	ctx, j.cancel = context.WithCancel(ctx)
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.sweep()
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (j *Janitor) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
}

func (j *Janitor) sweep() {
	for _, file := range j.files {
		if err := os.Truncate(file, 0); err != nil {
			j.log.Error("truncate log file failed",
				zap.String("file", file),
				zap.Error(err),
			)
			continue
		}
	}
	j.log.Info("log files truncated", zap.Int("count", len(j.files)))
}

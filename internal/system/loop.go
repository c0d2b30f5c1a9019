package system

import (
	"context"
	"time"

	coresys "github.com/solanharrison/stickman-fps-server/internal/core/system"
)

// Loop runs the phase runner on a fixed-rate ticker until ctx is done.
// A tick that overruns the period delays the next one; ticks are never
// run concurrently.
func Loop(ctx context.Context, runner *coresys.Runner, rate time.Duration) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runner.Tick(rate)
		}
	}
}

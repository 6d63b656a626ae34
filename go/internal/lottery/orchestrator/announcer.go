package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Announcement reports whether remaining sits within tolerance of a positive multiple of
// every, and the number of whole minutes at that boundary.
func Announcement(remaining, every, tolerance time.Duration) (int, bool) {
	boundary := remaining.Round(every)
	if boundary <= 0 {
		return 0, false
	}
	diff := remaining - boundary
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		return 0, false
	}
	return int(boundary / time.Minute), true
}

// runAnnouncer prints the remaining time near each AnnounceEvery boundary, checking once
// per AnnounceInterval, until the deadline passes.
func (o *Orchestrator) runAnnouncer(ctx context.Context) error {
	last := -1
	if !o.announce(&last) {
		return nil
	}

	ticker := o.clock.NewTicker(o.config.AnnounceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("run_id", o.app.RunID()).Msg("announcer cancelled")
			return nil
		case <-ticker.Chan():
			if !o.announce(&last) {
				log.Debug().Str("run_id", o.app.RunID()).Msg("registration closed, announcer stopping")
				return nil
			}
		}
	}
}

// announce prints at most once per boundary and returns false once registration has closed
func (o *Orchestrator) announce(last *int) bool {
	remaining := o.app.Remaining()
	if remaining <= 0 {
		return false
	}
	mins, ok := Announcement(remaining, o.config.AnnounceEvery, o.config.AnnounceInterval/2)
	if ok && mins != *last {
		*last = mins
		fmt.Fprintf(o.out, "\n[INFO] %d minutes left to register.\n", mins)
	}
	return true
}

package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// runSnapshotter saves the participant list every SnapshotInterval until the deadline passes.
// An interval already in progress is never cut short by the deadline; the check happens on wake.
func (o *Orchestrator) runSnapshotter(ctx context.Context) error {
	ticker := o.clock.NewTicker(o.config.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("run_id", o.app.RunID()).Msg("snapshotter cancelled")
			return nil
		case <-ticker.Chan():
			if o.app.Remaining() <= 0 {
				log.Debug().Str("run_id", o.app.RunID()).Msg("registration closed, snapshotter stopping")
				return nil
			}
			if err := o.app.SaveSnapshot(ctx); err != nil {
				return fmt.Errorf("snapshotter: %w", err)
			}
		}
	}
}

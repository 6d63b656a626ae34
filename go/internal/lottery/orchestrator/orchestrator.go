package orchestrator

import (
	"context"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// LotteryApp defines what the background tasks need from the lottery app
type LotteryApp interface {
	RunID() string
	Remaining() time.Duration
	SaveSnapshot(ctx context.Context) error
}

// Config controls the cadence of the background tasks
type Config struct {
	SnapshotInterval time.Duration
	AnnounceInterval time.Duration
	AnnounceEvery    time.Duration
}

// DefaultConfig saves every 5 minutes and announces every 10 minutes, checking once a minute
func DefaultConfig() Config {
	return Config{
		SnapshotInterval: 5 * time.Minute,
		AnnounceInterval: time.Minute,
		AnnounceEvery:    10 * time.Minute,
	}
}

// Orchestrator runs the periodic snapshotter and timer announcer while registration is open
type Orchestrator struct {
	app    LotteryApp
	clock  clockwork.Clock
	out    io.Writer
	config Config
}

// NewOrchestrator creates the background task runner. Announcements are written to out.
func NewOrchestrator(app LotteryApp, clock clockwork.Clock, out io.Writer, cfg Config) *Orchestrator {
	return &Orchestrator{
		app:    app,
		clock:  clock,
		out:    out,
		config: cfg,
	}
}

// Run starts both tasks and blocks until each has stopped. A task stops when the deadline
// has passed or ctx is cancelled. The first snapshot failure cancels the other task and is
// returned.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Info().
		Str("run_id", o.app.RunID()).
		Dur("snapshot_interval", o.config.SnapshotInterval).
		Dur("announce_interval", o.config.AnnounceInterval).
		Msg("background tasks started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return o.runSnapshotter(gctx) })
	g.Go(func() error { return o.runAnnouncer(gctx) })

	err := g.Wait()
	if err != nil {
		log.Error().Err(err).Str("run_id", o.app.RunID()).Msg("background task failed")
	} else {
		log.Info().Str("run_id", o.app.RunID()).Msg("background tasks stopped")
	}
	return err
}

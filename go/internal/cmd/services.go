package main

import (
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/lottery/go/internal/config"
	"github.com/mcdev12/lottery/go/internal/lottery"
	"github.com/mcdev12/lottery/go/internal/lottery/console"
	"github.com/mcdev12/lottery/go/internal/lottery/eventlog"
	"github.com/mcdev12/lottery/go/internal/lottery/events"
	"github.com/mcdev12/lottery/go/internal/lottery/metrics"
	"github.com/mcdev12/lottery/go/internal/lottery/orchestrator"
)

type Services struct {
	App          *lottery.App
	Orchestrator *orchestrator.Orchestrator
	Registration *console.Service
	Metrics      *metrics.PrometheusMetrics
	Publisher    events.Publisher
}

func setupServices(cfg config.Config, clock clockwork.Clock, in io.Reader, out io.Writer) (*Services, error) {
	// Wire up dependency injection chain
	// Snapshot file / event log → App → background tasks + console loop

	seed := cfg.Seed
	if seed == 0 {
		var err error
		if seed, err = lottery.NewSeed(); err != nil {
			return nil, fmt.Errorf("failed to seed draw: %w", err)
		}
	}

	publisher := setupPublisher(cfg)
	collector := metrics.NewPrometheusMetrics()

	session := lottery.NewSession(clock, cfg.RegistrationWindow, lottery.ExtensionPolicy{
		Threshold: cfg.ExtensionThreshold,
		Increment: cfg.Extension,
	})
	repo := lottery.NewRepository(cfg.SnapshotPath)
	eventLog := eventlog.New(cfg.LogPath, clock)
	log.Info().
		Str("snapshot", repo.Path()).
		Str("event_log", eventLog.Path()).
		Msg("lottery storage configured")

	app := lottery.NewApp(
		session,
		repo,
		eventLog,
		lottery.NewDrawer(seed),
		publisher,
		collector,
	)

	orch := orchestrator.NewOrchestrator(app, clock, out, orchestrator.Config{
		SnapshotInterval: cfg.SnapshotInterval,
		AnnounceInterval: cfg.AnnounceInterval,
		AnnounceEvery:    cfg.AnnounceEvery,
	})

	return &Services{
		App:          app,
		Orchestrator: orch,
		Registration: console.NewService(app, clock, console.ReadLines(in), out),
		Metrics:      collector,
		Publisher:    publisher,
	}, nil
}

// setupPublisher falls back to a no-op publisher when NATS is not configured or unreachable
func setupPublisher(cfg config.Config) events.Publisher {
	if cfg.NATSURL == "" {
		return events.NoOpPublisher{}
	}

	natsCfg := events.DefaultNATSConfig()
	natsCfg.URL = cfg.NATSURL
	natsCfg.SubjectPrefix = cfg.NATSSubjectPrefix

	publisher, err := events.NewNATSPublisher(natsCfg)
	if err != nil {
		log.Warn().Err(err).Str("url", cfg.NATSURL).Msg("event publishing disabled")
		return events.NoOpPublisher{}
	}
	log.Info().Str("url", cfg.NATSURL).Str("prefix", natsCfg.SubjectPrefix).Msg("publishing lottery events to NATS")
	return publisher
}

func (s *Services) Close() {
	if err := s.Publisher.Close(); err != nil {
		log.Error().Err(err).Msg("close publisher")
	}
}

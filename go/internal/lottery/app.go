package lottery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/lottery/go/internal/lottery/events"
	"github.com/mcdev12/lottery/go/internal/lottery/metrics"
)

// SnapshotRepository defines what the app layer needs from snapshot storage
type SnapshotRepository interface {
	Load() ([]string, bool, error)
	Save(usernames []string) error
}

// EventLogger records lifecycle lines
type EventLogger interface {
	Log(message string) error
}

// App handles lottery business logic for one run
type App struct {
	runID     string
	session   *Session
	repo      SnapshotRepository
	logger    EventLogger
	drawer    *Drawer
	publisher events.Publisher
	metrics   metrics.Collector
}

// NewApp creates a new lottery App
func NewApp(session *Session, repo SnapshotRepository, logger EventLogger, drawer *Drawer, publisher events.Publisher, collector metrics.Collector) *App {
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	return &App{
		runID:     uuid.New().String()[:8], // short ID for logging
		session:   session,
		repo:      repo,
		logger:    logger,
		drawer:    drawer,
		publisher: publisher,
		metrics:   collector,
	}
}

// RunID returns the short identifier of this run
func (a *App) RunID() string {
	return a.runID
}

// Session returns the shared run state
func (a *App) Session() *Session {
	return a.session
}

// Remaining returns the time left to register
func (a *App) Remaining() time.Duration {
	return a.session.Remaining()
}

// Start records the start of the run and restores participants from the last snapshot.
// It reports how many participants were restored and whether a snapshot existed.
func (a *App) Start(ctx context.Context) (int, bool, error) {
	if err := a.logger.Log("Lottery system started."); err != nil {
		return 0, false, err
	}

	saved, found, err := a.repo.Load()
	if err != nil {
		return 0, false, fmt.Errorf("failed to restore participants: %w", err)
	}

	restored := 0
	if found {
		restored = a.session.Restore(saved)
		if err := a.logger.Log(fmt.Sprintf("Loaded %d participants from backup.", restored)); err != nil {
			return 0, false, err
		}
	}
	a.metrics.RecordParticipants(restored)

	log.Info().
		Str("run_id", a.runID).
		Time("deadline", a.session.Deadline()).
		Int("restored", restored).
		Bool("snapshot_found", found).
		Msg("lottery started")

	a.publish(ctx, events.TypeLotteryStarted, events.LotteryStartedPayload{
		StartedAt: a.session.StartedAt(),
		Deadline:  a.session.Deadline(),
		Restored:  restored,
		WindowSec: int(a.session.Window().Seconds()),
	})
	return restored, found, nil
}

// Register validates and records a username. Validation failures wrap ErrInvalidUsername or
// ErrDuplicateUsername; any other error means the event log could not be written.
func (a *App) Register(ctx context.Context, raw string) (Registration, error) {
	reg, err := a.session.Register(raw)
	if err != nil {
		result := metrics.ResultInvalid
		if errors.Is(err, ErrDuplicateUsername) {
			result = metrics.ResultDuplicate
		}
		a.metrics.RecordRegistration(result)
		if logErr := a.logger.Log(fmt.Sprintf("Rejected username %q: %s", raw, result)); logErr != nil {
			return Registration{}, logErr
		}
		log.Debug().Str("run_id", a.runID).Str("input", raw).Str("result", result).Msg("registration rejected")
		return Registration{}, err
	}

	a.metrics.RecordRegistration(metrics.ResultAccepted)
	a.metrics.RecordParticipants(reg.Count)
	if err := a.logger.Log("User registered: " + reg.Username); err != nil {
		return Registration{}, err
	}
	log.Debug().
		Str("run_id", a.runID).
		Str("username", reg.Username).
		Int("count", reg.Count).
		Msg("participant registered")

	a.publish(ctx, events.TypeParticipantRegistered, events.ParticipantRegisteredPayload{
		Username:     reg.Username,
		Count:        reg.Count,
		RegisteredAt: a.session.clock.Now(),
	})

	if reg.Extension != nil {
		if err := a.recordExtension(ctx, *reg.Extension); err != nil {
			return Registration{}, err
		}
	}
	return reg, nil
}

// ExtendIfDue applies the extension policy at the deadline checkpoint
func (a *App) ExtendIfDue(ctx context.Context) (Extension, bool, error) {
	ext, ok := a.session.ExtendIfDue()
	if !ok {
		return Extension{}, false, nil
	}
	if err := a.recordExtension(ctx, ext); err != nil {
		return Extension{}, false, err
	}
	return ext, true, nil
}

func (a *App) recordExtension(ctx context.Context, ext Extension) error {
	a.metrics.RecordExtension()
	if err := a.logger.Log(fmt.Sprintf("Registration extended by %s until %s.", ext.By, ext.Deadline.Local().Format("15:04:05"))); err != nil {
		return err
	}
	log.Info().
		Str("run_id", a.runID).
		Int("count", ext.Count).
		Dur("extended_by", ext.By).
		Time("deadline", ext.Deadline).
		Msg("registration deadline extended")

	a.publish(ctx, events.TypeDeadlineExtended, events.DeadlineExtendedPayload{
		Count:       ext.Count,
		ExtendedBy:  ext.By.String(),
		NewDeadline: ext.Deadline,
	})
	return nil
}

// SaveSnapshot writes the full participant list, holding the session lock for the whole
// read-serialize-write step.
func (a *App) SaveSnapshot(ctx context.Context) error {
	start := time.Now()
	var count int
	err := a.session.WithLock(func(r *Registry) error {
		count = r.Len()
		if err := a.repo.Save(r.Members()); err != nil {
			return err
		}
		return a.logger.Log("Auto-saved participant list.")
	})
	a.metrics.RecordSnapshot(err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.Debug().
		Str("run_id", a.runID).
		Int("participants", count).
		Dur("took", time.Since(start)).
		Msg("snapshot saved")
	return nil
}

// Draw selects the winner. An empty registry returns ErrNoParticipants after logging it
// and publishes no WinnerDrawn event.
func (a *App) Draw(ctx context.Context) (DrawResult, error) {
	var result DrawResult
	err := a.session.WithLock(func(r *Registry) error {
		var err error
		result, err = a.drawer.Pick(r)
		return err
	})

	if errors.Is(err, ErrNoParticipants) {
		a.metrics.RecordDraw(metrics.DrawEmpty)
		if logErr := a.logger.Log("Program exited due to no participants."); logErr != nil {
			return DrawResult{}, logErr
		}
		log.Info().Str("run_id", a.runID).Msg("no participants, skipping draw")
		return DrawResult{}, ErrNoParticipants
	}
	if err != nil {
		return DrawResult{}, fmt.Errorf("failed to draw winner: %w", err)
	}

	a.metrics.RecordDraw(metrics.DrawWinner)
	if err := a.logger.Log("Winner selected: " + result.Winner); err != nil {
		return DrawResult{}, err
	}
	log.Info().
		Str("run_id", a.runID).
		Str("winner", result.Winner).
		Int("participants", result.Participants).
		Msg("winner selected")

	a.publish(ctx, events.TypeWinnerDrawn, events.WinnerDrawnPayload{
		Winner:       result.Winner,
		Participants: result.Participants,
		DrawnAt:      a.session.clock.Now(),
	})
	return result, nil
}

// Finish writes the closing log entry
func (a *App) Finish(ctx context.Context, reason string) error {
	now := a.session.clock.Now()
	a.publish(ctx, events.TypeLotteryFinished, events.LotteryFinishedPayload{
		FinishedAt: now,
		Duration:   now.Sub(a.session.StartedAt()).Round(time.Second).String(),
		Reason:     reason,
	})
	log.Info().Str("run_id", a.runID).Str("reason", reason).Msg("lottery finished")
	return a.logger.Log("Lottery system finished.")
}

// publish is best-effort; the console flow never depends on the bus
func (a *App) publish(ctx context.Context, eventType string, payload any) {
	err := a.publisher.Publish(ctx, events.Event{
		RunID:   a.runID,
		Type:    eventType,
		Payload: payload,
	})
	if err != nil {
		log.Warn().Err(err).Str("run_id", a.runID).Str("event_type", eventType).Msg("failed to publish event")
	}
}

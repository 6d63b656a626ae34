package lottery

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/lottery/go/internal/lottery/events"
	"github.com/mcdev12/lottery/go/internal/lottery/metrics"
)

type memoryLogger struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (l *memoryLogger) Log(message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.lines = append(l.lines, message)
	return nil
}

func (l *memoryLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type failingRepository struct{ err error }

func (r failingRepository) Load() ([]string, bool, error) { return nil, false, r.err }
func (r failingRepository) Save([]string) error { return r.err }

type appFixture struct {
	app       *App
	clock     *clockwork.FakeClock
	logger    *memoryLogger
	publisher *recordingPublisher
	repo      *Repository
	metrics   *metrics.PrometheusMetrics
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testStart)
	f := &appFixture{
		clock:     clock,
		logger:    &memoryLogger{},
		publisher: &recordingPublisher{},
		repo:      NewRepository(filepath.Join(t.TempDir(), "backup.json")),
		metrics:   metrics.NewPrometheusMetrics(),
	}
	session := NewSession(clock, time.Hour, DefaultExtensionPolicy())
	f.app = NewApp(session, f.repo, f.logger, NewDrawer(1), f.publisher, f.metrics)
	return f
}

func TestApp_StartWithoutSnapshot(t *testing.T) {
	f := newAppFixture(t)

	restored, found, err := f.app.Start(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, restored)
	assert.Equal(t, []string{"Lottery system started."}, f.logger.Lines())
	assert.Equal(t, []string{events.TypeLotteryStarted}, f.publisher.Types())
	assert.Len(t, f.app.RunID(), 8)
}

func TestApp_StartRestoresSnapshot(t *testing.T) {
	f := newAppFixture(t)
	require.NoError(t, f.repo.Save([]string{"alice123", "bob99"}))

	restored, found, err := f.app.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, restored)
	assert.Equal(t, []string{"alice123", "bob99"}, f.app.Session().Members())
	assert.Equal(t, []string{
		"Lottery system started.",
		"Loaded 2 participants from backup.",
	}, f.logger.Lines())
}

func TestApp_StartFailsOnUnreadableSnapshot(t *testing.T) {
	f := newAppFixture(t)
	f.app.repo = failingRepository{err: errors.New("disk on fire")}

	_, _, err := f.app.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestApp_RegisterLogsOutcomes(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	_, err := f.app.Register(ctx, "alice!")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	reg, err := f.app.Register(ctx, "alice123")
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Count)

	_, err = f.app.Register(ctx, "alice123")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	reg, err = f.app.Register(ctx, "bob99")
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Count)

	assert.Equal(t, []string{
		`Rejected username "alice!": invalid`,
		"User registered: alice123",
		`Rejected username "alice123": duplicate`,
		"User registered: bob99",
	}, f.logger.Lines())
	assert.Equal(t, []string{events.TypeParticipantRegistered, events.TypeParticipantRegistered}, f.publisher.Types())
}

func TestApp_RegisterSurfacesLogFailure(t *testing.T) {
	f := newAppFixture(t)
	f.logger.err = errors.New("read-only filesystem")

	_, err := f.app.Register(context.Background(), "alice123")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidUsername))
	assert.False(t, errors.Is(err, ErrDuplicateUsername))
}

func TestApp_PublishFailureIsNotFatal(t *testing.T) {
	f := newAppFixture(t)
	f.publisher.err = errors.New("no responders")

	_, err := f.app.Register(context.Background(), "alice123")
	assert.NoError(t, err)
}

func TestApp_ExtendIfDue(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	_, ok, err := f.app.ExtendIfDue(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "not before the original deadline")

	f.clock.Advance(time.Hour)
	ext, ok, err := f.app.ExtendIfDue(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, ext.By)
	assert.Contains(t, f.logger.Lines()[0], "Registration extended by 30m0s")
	assert.Contains(t, f.publisher.Types(), events.TypeDeadlineExtended)

	_, ok, err = f.app.ExtendIfDue(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApp_SaveSnapshot(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	_, err := f.app.Register(ctx, "bob99")
	require.NoError(t, err)
	_, err = f.app.Register(ctx, "alice123")
	require.NoError(t, err)

	require.NoError(t, f.app.SaveSnapshot(ctx))

	saved, found, err := f.repo.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.ElementsMatch(t, []string{"alice123", "bob99"}, saved)
	assert.Equal(t, "Auto-saved participant list.", f.logger.Lines()[2])
}

func TestApp_SaveSnapshotFailure(t *testing.T) {
	f := newAppFixture(t)
	f.app.repo = failingRepository{err: errors.New("no space left on device")}

	err := f.app.SaveSnapshot(context.Background())
	require.Error(t, err)
	assert.Empty(t, f.logger.Lines())
}

func TestApp_DrawEmpty(t *testing.T) {
	f := newAppFixture(t)

	_, err := f.app.Draw(context.Background())
	assert.ErrorIs(t, err, ErrNoParticipants)
	assert.Equal(t, []string{"Program exited due to no participants."}, f.logger.Lines())
	assert.NotContains(t, f.publisher.Types(), events.TypeWinnerDrawn)
}

func TestApp_DrawWinner(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()
	for _, u := range []string{"alice123", "bob99"} {
		_, err := f.app.Register(ctx, u)
		require.NoError(t, err)
	}

	res, err := f.app.Draw(ctx)
	require.NoError(t, err)
	assert.Contains(t, []string{"alice123", "bob99"}, res.Winner)
	assert.Equal(t, 2, res.Participants)

	lines := f.logger.Lines()
	assert.Equal(t, "Winner selected: "+res.Winner, lines[len(lines)-1])
	assert.Contains(t, f.publisher.Types(), events.TypeWinnerDrawn)
}

func TestApp_Finish(t *testing.T) {
	f := newAppFixture(t)
	f.clock.Advance(time.Hour)

	require.NoError(t, f.app.Finish(context.Background(), "deadline"))
	assert.Equal(t, []string{"Lottery system finished."}, f.logger.Lines())
	assert.Equal(t, []string{events.TypeLotteryFinished}, f.publisher.Types())
}

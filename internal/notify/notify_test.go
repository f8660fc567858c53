package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/metrics"
	"medminder/internal/models"
	"medminder/internal/state"
	"medminder/internal/store"
)

var morning = time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

type testEnv struct {
	states    *store.StateStore
	container *state.Container
	recorder  *Recorder
	scheduler *Scheduler
	metrics   *metrics.Metrics
}

func newTestEnv(t *testing.T, cfg Config, seed func(*models.AppState)) *testEnv {
	t.Helper()
	backend, err := store.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	initial := models.DefaultAppState()
	if seed != nil {
		seed(initial)
	}
	states := store.NewStateStore(backend)
	c := state.New(states, "u1", initial, zap.NewNop())
	rec := NewRecorder(nil)
	m := metrics.New()
	s := NewScheduler(cfg, c, rec, zap.NewNop(), m)
	t.Cleanup(s.Stop)

	return &testEnv{states: states, container: c, recorder: rec, scheduler: s, metrics: m}
}

func TestCheck_MedicationRefiresWhileUntaken(t *testing.T) {
	env := newTestEnv(t, Config{}, func(s *models.AppState) {
		s.Medications = []models.Medication{{ID: "m1", Name: "Aspirin", Dosage: "100mg", Time: "08:00"}}
	})
	ctx := context.Background()

	n, err := env.scheduler.Check(ctx, morning)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = env.scheduler.Check(ctx, morning.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, n, "fired again inside the refire window")

	n, err = env.scheduler.Check(ctx, morning.Add(61*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// past the overdue window the dose is no longer reminded
	n, err = env.scheduler.Check(ctx, morning.Add(2*time.Hour+5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	sent := env.recorder.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "med-m1-2026-03-10-08:00", sent[0].Key)
	assert.Equal(t, sent[0].Key, sent[1].Key)
	assert.Equal(t, "Time for Aspirin", sent[0].Title)
	assert.Equal(t, "Aspirin (100mg) for Self at 08:00.", sent[0].Body)
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.NotificationsFired.WithLabelValues("medication")))

	loaded, err := env.states.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, morning.Add(61*time.Minute).UnixMilli(), loaded.NotificationLog["med-m1-2026-03-10-08:00"])
}

func TestCheck_MedicationStopsOnceTaken(t *testing.T) {
	env := newTestEnv(t, Config{}, func(s *models.AppState) {
		s.Medications = []models.Medication{{ID: "m1", Name: "Aspirin", Time: "08:00"}}
	})
	ctx := context.Background()

	n, err := env.scheduler.Check(ctx, morning)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, env.container.Update(ctx, func(s *models.AppState) error {
		s.Medications[0].Taken = true
		return nil
	}))
	n, err = env.scheduler.Check(ctx, morning.Add(61*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCheck_MedicationWindowAndTaken(t *testing.T) {
	env := newTestEnv(t, Config{}, func(s *models.AppState) {
		s.Medications = []models.Medication{
			{ID: "due", Name: "A", Time: "08:00"},
			{ID: "later", Name: "B", Time: "08:05"},
			{ID: "overdue", Name: "C", Time: "07:30"},
			{ID: "stale", Name: "D", Time: "05:59"},
			{ID: "taken", Name: "E", Time: "08:00", Taken: true},
			{ID: "bad", Name: "F", Time: "soon"},
		}
	})

	n, err := env.scheduler.Check(context.Background(), morning)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	sent := env.recorder.Sent()
	assert.Equal(t, "med-due-2026-03-10-08:00", sent[0].Key)
	assert.Equal(t, "med-overdue-2026-03-10-07:30", sent[1].Key)
}

func TestCheck_MedicationAcrossMidnight(t *testing.T) {
	env := newTestEnv(t, Config{}, func(s *models.AppState) {
		s.Medications = []models.Medication{
			{ID: "midnight", Name: "A", Time: "00:00"},
			{ID: "late", Name: "B", Time: "23:30"},
		}
	})
	ctx := context.Background()

	// 00:00 belongs to the next day
	beforeMidnight := time.Date(2026, 3, 10, 23, 59, 40, 0, time.Local)
	n, err := env.scheduler.Check(ctx, beforeMidnight)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	sent := env.recorder.Sent()
	assert.Equal(t, "med-midnight-2026-03-11-00:00", sent[0].Key)
	assert.Equal(t, "med-late-2026-03-10-23:30", sent[1].Key)

	// yesterday's 23:30 dose is still overdue after midnight
	afterMidnight := time.Date(2026, 3, 11, 1, 5, 0, 0, time.Local)
	n, err = env.scheduler.Check(ctx, afterMidnight)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	sent = env.recorder.Sent()
	assert.Equal(t, "med-midnight-2026-03-11-00:00", sent[2].Key)
	assert.Equal(t, "med-late-2026-03-10-23:30", sent[3].Key)
}

func TestCheck_AppointmentFiresOnce(t *testing.T) {
	env := newTestEnv(t, Config{}, func(s *models.AppState) {
		s.FamilyMembers = []models.FamilyMember{{ID: "f1", Name: "Ana"}}
		s.Appointments = []models.Appointment{
			{ID: "a1", Title: "Dentist", Date: "2026-03-10", Time: "08:20", AssignedTo: "f1"},
			{ID: "edge", Title: "Edge", Date: "2026-03-10", Time: "08:30"},
			{ID: "done", Title: "Done", Date: "2026-03-10", Time: "08:10", Completed: true},
		}
	})
	ctx := context.Background()

	n, err := env.scheduler.Check(ctx, morning)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	sent := env.recorder.Sent()
	assert.Equal(t, "appt-a1", sent[0].Key)
	assert.Equal(t, "Dentist for Ana at 08:20.", sent[0].Body)

	// a1 never fires again; edge is now inside the lead time
	n, err = env.scheduler.Check(ctx, morning.Add(5*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, "appt-edge", env.recorder.Sent()[1].Key)

	n, err = env.scheduler.Check(ctx, morning.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCheck_SpanishPayload(t *testing.T) {
	env := newTestEnv(t, Config{}, func(s *models.AppState) {
		s.Language = models.LanguageSpanish
		s.Medications = []models.Medication{{ID: "m1", Name: "Ibuprofeno", Dosage: "200mg", Time: "08:00"}}
	})

	_, err := env.scheduler.Check(context.Background(), morning)
	require.NoError(t, err)
	sent := env.recorder.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Hora de Ibuprofeno", sent[0].Title)
	assert.Equal(t, "Ibuprofeno (200mg) para Yo mismo a las 08:00.", sent[0].Body)
}

type failingNotifier struct{ *LogNotifier }

func (failingNotifier) Notify(context.Context, Notification) error {
	return errors.New("delivery failed")
}

func TestCheck_FailedDeliveryIsRetried(t *testing.T) {
	env := newTestEnv(t, Config{}, func(s *models.AppState) {
		s.Medications = []models.Medication{{ID: "m1", Name: "A", Time: "08:00"}}
	})
	env.recorder.Inner = failingNotifier{NewLogNotifier(zap.NewNop())}

	n, err := env.scheduler.Check(context.Background(), morning)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, env.container.Snapshot().NotificationLog)

	env.recorder.Inner = nil
	n, err = env.scheduler.Check(context.Background(), morning)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestScheduler_StartRequiresPermission(t *testing.T) {
	env := newTestEnv(t, Config{CheckInterval: time.Hour}, nil)
	ctx := context.Background()

	err := env.scheduler.Start(ctx)
	assert.ErrorIs(t, err, ErrNotGranted)
	assert.False(t, env.scheduler.IsRunning())

	status, err := env.scheduler.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionGranted, status)
	assert.True(t, env.scheduler.IsRunning())
	assert.Equal(t, models.PermissionGranted, env.container.Snapshot().NotificationPermission)

	// restarting replaces the schedule
	require.NoError(t, env.scheduler.Start(ctx))
	assert.True(t, env.scheduler.IsRunning())
	assert.Len(t, env.scheduler.cron.Entries(), 1)

	env.scheduler.Stop()
	env.scheduler.Stop()
	assert.False(t, env.scheduler.IsRunning())
}

func TestScheduler_RequestPermissionDenied(t *testing.T) {
	env := newTestEnv(t, Config{CheckInterval: time.Hour}, nil)
	env.recorder.Answer = models.PermissionDenied

	status, err := env.scheduler.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.PermissionDenied, status)
	assert.False(t, env.scheduler.IsRunning())

	loaded, err := env.states.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.PermissionDenied, loaded.NotificationPermission)
}

func TestPermissions_DenialIsTerminal(t *testing.T) {
	rec := NewRecorder(nil)
	rec.Answer = models.PermissionDenied
	p := NewPermissions(rec, models.PermissionDefault)
	ctx := context.Background()

	status, err := p.Request(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionDenied, status)

	rec.Answer = models.PermissionGranted
	status, err = p.Request(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionDenied, status)
	assert.Equal(t, 1, rec.Requests())

	// only the notifier reporting default reopens the prompt state
	rec.SetPermission(models.PermissionDefault)
	assert.Equal(t, models.PermissionDefault, p.Sync())
}

func TestPermissions_AskedOncePerSession(t *testing.T) {
	rec := NewRecorder(nil)
	rec.Answer = models.PermissionDefault
	p := NewPermissions(rec, "")
	ctx := context.Background()

	_, err := p.Request(ctx)
	require.NoError(t, err)
	_, err = p.Request(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Requests())
	assert.Equal(t, models.PermissionDefault, p.Status())
}

func TestPermissions_Unsupported(t *testing.T) {
	rec := NewRecorder(nil)
	rec.Unsupported = true
	p := NewPermissions(rec, models.PermissionGranted)

	assert.Equal(t, models.PermissionDenied, p.Status())
	status, err := p.Request(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedEnv)
	assert.Equal(t, models.PermissionDenied, status)
	assert.Equal(t, 0, rec.Requests())
}

func TestRecorder_BoundsFeed(t *testing.T) {
	rec := NewRecorder(nil)
	for i := 0; i < maxRecorded+5; i++ {
		require.NoError(t, rec.Notify(context.Background(), Notification{Key: "k"}))
	}
	assert.Len(t, rec.Sent(), maxRecorded)
}

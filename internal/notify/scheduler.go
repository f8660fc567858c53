package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/i18n"
	"medminder/internal/metrics"
	"medminder/internal/models"
	"medminder/internal/state"
)

// ErrNotGranted is returned by Start while permission is not granted.
var ErrNotGranted = apperrors.New(apperrors.CodeUnauthorized, "notification permission not granted")

// Config holds scheduler timing
type Config struct {
	CheckInterval    time.Duration
	MedicationWindow time.Duration // how far ahead of now a dose is due
	OverdueWindow    time.Duration // how long an untaken dose keeps reminding
	RefireWindow     time.Duration // minimum gap before a dose fires again
	AppointmentLead  time.Duration // how far ahead of an appointment it fires
}

func (c Config) withDefaults() Config {
	if c.CheckInterval <= 0 {
		c.CheckInterval = 30 * time.Second
	}
	if c.MedicationWindow <= 0 {
		c.MedicationWindow = time.Minute
	}
	if c.OverdueWindow <= 0 {
		c.OverdueWindow = 2 * time.Hour
	}
	if c.RefireWindow <= 0 {
		c.RefireWindow = time.Hour
	}
	if c.AppointmentLead <= 0 {
		c.AppointmentLead = 30 * time.Minute
	}
	return c
}

// Scheduler periodically checks one user's medications and appointments
// and delivers reminders through a Notifier.
type Scheduler struct {
	config    Config
	container *state.Container
	notifier  Notifier
	perms     *Permissions
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool

	// serializes checks so a key is never delivered twice
	checkMu sync.Mutex
}

// NewScheduler builds a stopped scheduler. Permission starts from what the
// container has persisted.
func NewScheduler(cfg Config, c *state.Container, n Notifier, logger *zap.Logger, m *metrics.Metrics) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config:    cfg.withDefaults(),
		container: c,
		notifier:  n,
		perms:     NewPermissions(n, c.Snapshot().NotificationPermission),
		logger:    logger.With(zap.String("user_id", c.UserID())),
		metrics:   m,
		now:       time.Now,
	}
}

// WithClock replaces the time source used by scheduled checks.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

func (s *Scheduler) Permission() models.Permission {
	return s.perms.Status()
}

// RequestPermission asks for permission, persists the outcome and starts
// checking once granted.
func (s *Scheduler) RequestPermission(ctx context.Context) (models.Permission, error) {
	status, reqErr := s.perms.Request(ctx)

	err := s.container.Update(ctx, func(st *models.AppState) error {
		st.NotificationPermission = status
		return nil
	})
	if err != nil {
		return status, err
	}
	if reqErr != nil {
		s.logger.Warn("Notification permission unavailable", zap.Error(reqErr))
		return status, reqErr
	}

	s.logger.Info("Notification permission", zap.String("status", string(status)))
	if status == models.PermissionGranted {
		return status, s.Start(ctx)
	}
	return status, nil
}

// Start begins periodic checks. A running schedule is replaced, never
// duplicated.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.perms.Sync() != models.PermissionGranted {
		return ErrNotGranted
	}

	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	// checks outlive the request that started them
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", s.config.CheckInterval), func() {
		if _, err := s.Check(runCtx, s.now()); err != nil {
			s.logger.Error("Notification check failed", zap.Error(err))
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule notification checks: %w", err)
	}
	c.Start()

	s.cron = c
	s.cancel = cancel
	s.running = true
	s.logger.Info("Notification scheduler started", zap.Duration("interval", s.config.CheckInterval))
	return nil
}

// Stop halts periodic checks and waits for a running check to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel, s.running = nil, nil, false
	s.mu.Unlock()

	cancel()
	<-c.Stop().Done()
	s.logger.Info("Notification scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Check delivers every reminder due at now and records it in the
// notification log. It returns how many were delivered.
func (s *Scheduler) Check(ctx context.Context, now time.Time) (int, error) {
	s.checkMu.Lock()
	defer s.checkMu.Unlock()

	snapshot := s.container.Snapshot()
	due := s.due(snapshot, now)
	if len(due) == 0 {
		return 0, nil
	}

	fired := make([]string, 0, len(due))
	for _, n := range due {
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Warn("Failed to deliver notification", zap.String("key", n.Key), zap.Error(err))
			continue
		}
		fired = append(fired, n.Key)
		if s.metrics != nil {
			s.metrics.NotificationsFired.WithLabelValues(string(n.Kind)).Inc()
		}
	}
	if len(fired) == 0 {
		return 0, nil
	}

	stamp := now.UnixMilli()
	err := s.container.Update(ctx, func(st *models.AppState) error {
		if st.NotificationLog == nil {
			st.NotificationLog = map[string]int64{}
		}
		for _, key := range fired {
			st.NotificationLog[key] = stamp
		}
		return nil
	})
	if err != nil {
		return len(fired), err
	}

	s.logger.Debug("Notifications delivered", zap.Int("count", len(fired)))
	return len(fired), nil
}

func (s *Scheduler) due(st *models.AppState, now time.Time) []Notification {
	var out []Notification
	loc := now.Location()
	lang := st.Language
	self := i18n.T(lang, "self")

	for _, m := range st.Medications {
		if m.Taken {
			continue
		}
		for _, at := range s.doses(m, now) {
			key := MedicationKey(m.ID, at, at.Hour(), at.Minute())
			if firedWithin(st.NotificationLog, key, now, s.config.RefireWindow) {
				continue
			}
			args := map[string]string{
				"name":     m.Name,
				"dosage":   m.Dosage,
				"assignee": st.AssigneeName(m.AssignedTo, self),
				"time":     at.Format("15:04"),
			}
			out = append(out, Notification{
				Key:    key,
				Kind:   KindMedication,
				Title:  i18n.Format(lang, "notificationMedTitle", args),
				Body:   i18n.Format(lang, "notificationMedBody", args),
				SentAt: now,
			})
		}
	}

	for _, a := range st.Appointments {
		if a.Completed {
			continue
		}
		at, ok := a.StartsAt(loc)
		if !ok || !at.After(now) || !at.Before(now.Add(s.config.AppointmentLead)) {
			continue
		}
		key := AppointmentKey(a.ID)
		if firedEver(st.NotificationLog, key) {
			continue
		}
		args := map[string]string{
			"name":     a.Title,
			"assignee": st.AssigneeName(a.AssignedTo, self),
			"time":     at.Format("15:04"),
		}
		out = append(out, Notification{
			Key:    key,
			Kind:   KindAppointment,
			Title:  i18n.Format(lang, "notificationApptTitle", args),
			Body:   i18n.Format(lang, "notificationApptBody", args),
			SentAt: now,
		})
	}
	return out
}

// doses returns the dose times of m inside [now-OverdueWindow, now+MedicationWindow].
// The range can span midnight, so every calendar day it touches is considered.
func (s *Scheduler) doses(m models.Medication, now time.Time) []time.Time {
	from := now.Add(-s.config.OverdueWindow)
	to := now.Add(s.config.MedicationWindow)

	var out []time.Time
	seen := make(map[string]bool, 3)
	for _, day := range []time.Time{from, now, to} {
		at, err := m.ScheduledOn(day)
		if err != nil {
			return nil
		}
		stamp := at.Format(models.DateLayout)
		if seen[stamp] || at.Before(from) || at.After(to) {
			continue
		}
		seen[stamp] = true
		out = append(out, at)
	}
	return out
}

package app

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/metrics"
	"medminder/internal/models"
	"medminder/internal/notify"
	"medminder/internal/service"
	"medminder/internal/state"
	"medminder/internal/store"
)

// Workspace bundles everything that serves one logged-in user.
type Workspace struct {
	UserID        string
	Container     *state.Container
	Medications   *service.Medications
	Appointments  *service.Appointments
	Family        *service.FamilyMembers
	Records       *service.Records
	Scheduler     *notify.Scheduler
	Notifications *notify.Recorder

	logger *zap.Logger

	// background fetches started by Refresh; closed refuses new ones
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Refresh starts the background fetch the view shows a loading state for.
// It returns immediately; stale results are dropped by the services. It
// reports false once the workspace has been deactivated.
func (w *Workspace) Refresh(view models.View) bool {
	var fetch func(context.Context) error
	switch view {
	case models.ViewReminders:
		fetch = func(ctx context.Context) error { _, err := w.Medications.Fetch(ctx); return err }
	case models.ViewAppointments:
		fetch = func(ctx context.Context) error { _, err := w.Appointments.Fetch(ctx); return err }
	case models.ViewFamily, models.ViewEmergency:
		fetch = func(ctx context.Context) error { _, err := w.Family.Fetch(ctx); return err }
	default:
		return true
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := fetch(ctx); err != nil && !stderrors.Is(err, apperrors.ErrStale) {
			w.logger.Warn("Background fetch failed", zap.String("view", string(view)), zap.Error(err))
		}
	}()
	return true
}

// Wait blocks until background fetches finish.
func (w *Workspace) Wait() {
	w.wg.Wait()
}

// close refuses further fetches and waits for the running ones.
func (w *Workspace) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.wg.Wait()
}

// Options configures workspaces.
type Options struct {
	Service  service.Options
	Notify   notify.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Notifier func(logger *zap.Logger) notify.Notifier // defaults to a LogNotifier
}

// Manager activates and deactivates workspaces as users log in and out.
type Manager struct {
	states *store.StateStore
	opts   Options
	logger *zap.Logger

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewManager(states *store.StateStore, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = func(logger *zap.Logger) notify.Notifier { return notify.NewLogNotifier(logger) }
	}
	opts.Service.Logger = opts.Logger
	opts.Service.Metrics = opts.Metrics
	return &Manager{
		states:     states,
		opts:       opts,
		logger:     opts.Logger,
		workspaces: make(map[string]*Workspace),
	}
}

// Activate returns the user's workspace, loading their state on first use.
func (m *Manager) Activate(ctx context.Context, userID string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ws, ok := m.workspaces[userID]; ok {
		return ws, nil
	}

	initial, err := m.states.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger := m.logger.With(zap.String("user_id", userID))
	c := state.New(m.states, userID, initial, logger)
	recorder := notify.NewRecorder(m.opts.Notifier(logger))

	ws := &Workspace{
		UserID:        userID,
		Container:     c,
		Medications:   service.NewMedications(c, m.opts.Service),
		Appointments:  service.NewAppointments(c, m.opts.Service),
		Family:        service.NewFamilyMembers(c, m.opts.Service),
		Records:       service.NewRecords(c, m.opts.Service),
		Scheduler:     notify.NewScheduler(m.opts.Notify, c, recorder, logger, m.opts.Metrics),
		Notifications: recorder,
		logger:        logger,
	}

	// resumes reminders when a previous session granted permission
	if err := ws.Scheduler.Start(ctx); err != nil && !stderrors.Is(err, notify.ErrNotGranted) {
		return nil, err
	}

	m.workspaces[userID] = ws
	m.logger.Info("Workspace activated", zap.String("user_id", userID))
	return ws, nil
}

// Switch makes userID the only active workspace, deactivating any other
// user's workspace first.
func (m *Manager) Switch(ctx context.Context, userID string) (*Workspace, error) {
	m.mu.Lock()
	var others []string
	for id := range m.workspaces {
		if id != userID {
			others = append(others, id)
		}
	}
	m.mu.Unlock()

	for _, id := range others {
		m.Deactivate(id)
	}
	return m.Activate(ctx, userID)
}

// Get returns an already active workspace.
func (m *Manager) Get(userID string) (*Workspace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.workspaces[userID]
	return ws, ok
}

// Deactivate stops the user's scheduler and forgets the workspace. State
// stays persisted.
func (m *Manager) Deactivate(userID string) {
	m.mu.Lock()
	ws, ok := m.workspaces[userID]
	delete(m.workspaces, userID)
	m.mu.Unlock()

	if !ok {
		return
	}
	ws.Scheduler.Stop()
	ws.close()
	m.logger.Info("Workspace deactivated", zap.String("user_id", userID))
}

// Close deactivates every workspace.
func (m *Manager) Close() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.workspaces))
	for id := range m.workspaces {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Deactivate(id)
	}
}

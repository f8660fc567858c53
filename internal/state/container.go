package state

import (
	"context"
	"sync"

	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
)

// Persister saves a user's state. *store.StateStore satisfies it.
type Persister interface {
	Save(ctx context.Context, userID string, state *models.AppState) error
}

// Listener receives a snapshot after every change.
type Listener func(*models.AppState)

// Container owns one user's application state. Every mutation goes through
// it; persisted mutations are saved before the lock is released so two
// operations never interleave between mutate and persist.
type Container struct {
	mu         sync.Mutex
	store      Persister
	userID     string
	state      *models.AppState
	generation uint64

	subMu     sync.Mutex
	listeners map[int]Listener
	nextSub   int

	logger *zap.Logger
}

// New wraps initial (typically freshly loaded) state.
func New(store Persister, userID string, initial *models.AppState, logger *zap.Logger) *Container {
	if initial == nil {
		initial = models.DefaultAppState()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Container{
		store:     store,
		userID:    userID,
		state:     initial.Clone(),
		listeners: make(map[int]Listener),
		logger:    logger.With(zap.String("user_id", userID)),
	}
}

func (c *Container) UserID() string {
	return c.userID
}

// Snapshot returns a deep copy of the current state.
func (c *Container) Snapshot() *models.AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Generation returns the navigation generation. It changes on every view
// switch and is used to discard results of fetches issued before it.
func (c *Container) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Update applies fn to a working copy and persists it. The change only
// becomes visible once saved; if fn or the save fails the state is left
// as it was.
func (c *Container) Update(ctx context.Context, fn func(*models.AppState) error) error {
	return c.commit(ctx, fn, false)
}

func (c *Container) commit(ctx context.Context, fn func(*models.AppState) error, navigation bool) error {
	c.mu.Lock()
	working := c.state.Clone()
	if err := fn(working); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.store.Save(ctx, c.userID, working); err != nil {
		c.mu.Unlock()
		c.logger.Error("Failed to persist state", zap.Error(err))
		return err
	}
	c.state = working
	if navigation {
		c.generation++
	}
	snapshot := working.Clone()
	c.mu.Unlock()

	c.notify(snapshot)
	return nil
}

// Mutate changes transient fields only and does not persist.
func (c *Container) Mutate(fn func(*models.AppState)) {
	c.mu.Lock()
	fn(c.state)
	snapshot := c.state.Clone()
	c.mu.Unlock()

	c.notify(snapshot)
}

// Subscribe registers l and returns a function that removes it.
func (c *Container) Subscribe(l Listener) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = l
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Container) notify(snapshot *models.AppState) {
	c.subMu.Lock()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.subMu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Navigate switches the current view. Edits are dropped only when the view
// actually changes.
func (c *Container) Navigate(ctx context.Context, view models.View) error {
	if !view.Valid() {
		return apperrors.Validation("unknown view " + string(view))
	}
	err := c.commit(ctx, func(s *models.AppState) error {
		if s.CurrentView != view {
			s.CurrentView = view
			s.ClearEdits()
		}
		return nil
	}, true)
	if err != nil {
		return err
	}
	c.logger.Debug("Navigated", zap.String("view", string(view)))
	return nil
}

// ShowMemberDetails opens the family view with memberID under edit.
func (c *Container) ShowMemberDetails(ctx context.Context, memberID string) error {
	return c.commit(ctx, func(s *models.AppState) error {
		if _, ok := s.FamilyMember(memberID); !ok {
			return apperrors.NotFound("family member", memberID)
		}
		s.CurrentView = models.ViewFamily
		s.StartEdit(models.EditFamilyMember, memberID)
		return nil
	}, true)
}

// StartEdit puts one entity in edit mode, clearing any other edit.
func (c *Container) StartEdit(kind models.EditKind, id string) {
	c.Mutate(func(s *models.AppState) {
		s.StartEdit(kind, id)
	})
}

func (c *Container) ClearEdits() {
	c.Mutate(func(s *models.AppState) {
		s.ClearEdits()
	})
}

func (c *Container) SetLanguage(ctx context.Context, lang models.Language) error {
	if !lang.Valid() {
		return apperrors.Validation("unsupported language " + string(lang))
	}
	return c.Update(ctx, func(s *models.AppState) error {
		s.Language = lang
		return nil
	})
}

// EnterApp leaves the landing page.
func (c *Container) EnterApp(ctx context.Context) error {
	return c.Update(ctx, func(s *models.AppState) error {
		s.IsLandingActive = false
		return nil
	})
}

package auth

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "medminder/internal/errors"
	"medminder/internal/metrics"
	"medminder/internal/models"
	"medminder/internal/service"
	"medminder/internal/store"
)

// DefaultLatency is the artificial delay of login and registration.
const DefaultLatency = 500 * time.Millisecond

// User-visible failures of the login page.
var (
	ErrMissingCredentials = apperrors.Validation("Username and password are required.")
	ErrPasswordTooShort   = apperrors.Validation("Password must be at least 6 characters long.")
	ErrPasswordMismatch   = apperrors.Validation("Passwords do not match.")
	ErrUsernameTaken      = apperrors.Validation("Username already exists.")
	ErrInvalidCredentials = apperrors.New(apperrors.CodeUnauthorized, "Invalid username or password.")
)

// RegisterInput represents the registration form.
type RegisterInput struct {
	Username        string `json:"username" form:"username" validate:"required"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"eqfield=Password"`
}

// LoginInput represents the login form.
type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Options configures a Session.
type Options struct {
	Latency time.Duration
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Session owns the user directory and the current-user pointer. There is
// at most one current user at a time.
type Session struct {
	store    *store.StateStore
	latency  service.Latency
	validate *validator.Validate
	logger   *zap.Logger
	metrics  *metrics.Metrics

	// serializes directory read-modify-write
	mu sync.Mutex
}

func NewSession(st *store.StateStore, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:    st,
		latency:  service.Latency(opts.Latency),
		validate: validator.New(),
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// Register validates the input, adds the user to the directory and logs
// them in. On failure the directory is left unchanged.
func (s *Session) Register(ctx context.Context, in RegisterInput) (user models.CurrentUser, err error) {
	defer func() { s.observe("register", err) }()

	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate.Struct(in); err != nil {
		return models.CurrentUser{}, registrationError(err)
	}

	if err := s.latency.Wait(ctx); err != nil {
		return models.CurrentUser{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return models.CurrentUser{}, err
	}
	for _, u := range users {
		if u.Username == in.Username {
			return models.CurrentUser{}, ErrUsernameTaken
		}
	}

	newUser := models.User{ID: models.NewID(), Username: in.Username}
	if err := newUser.SetPassword(in.Password); err != nil {
		return models.CurrentUser{}, apperrors.Wrap(err, apperrors.CodeStorage, "failed to hash password")
	}
	users = append(users, newUser)
	if err := s.store.PutJSON(ctx, store.UsersKey, users); err != nil {
		return models.CurrentUser{}, err
	}

	current := newUser.Sanitize()
	if err := s.store.PutJSON(ctx, store.CurrentUserKey, current); err != nil {
		return models.CurrentUser{}, err
	}
	s.logger.Info("User registered", zap.String("user_id", current.ID), zap.String("username", current.Username))
	return current, nil
}

// Login makes the matching user current.
func (s *Session) Login(ctx context.Context, in LoginInput) (user models.CurrentUser, err error) {
	defer func() { s.observe("login", err) }()

	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate.Struct(in); err != nil {
		return models.CurrentUser{}, ErrInvalidCredentials
	}

	if err := s.latency.Wait(ctx); err != nil {
		return models.CurrentUser{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return models.CurrentUser{}, err
	}
	for i := range users {
		if users[i].Username != in.Username {
			continue
		}
		if !users[i].CheckPassword(in.Password) {
			break
		}
		current := users[i].Sanitize()
		if err := s.store.PutJSON(ctx, store.CurrentUserKey, current); err != nil {
			return models.CurrentUser{}, err
		}
		s.logger.Info("User logged in", zap.String("user_id", current.ID))
		return current, nil
	}

	s.logger.Info("Login rejected", zap.String("username", in.Username))
	return models.CurrentUser{}, ErrInvalidCredentials
}

// Logout clears the current-user pointer. The directory and the user's
// application state are kept.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Backend().Delete(ctx, store.CurrentUserKey); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "failed to clear current user")
	}
	s.logger.Info("User logged out")
	return nil
}

// Current returns the logged-in user, if any.
func (s *Session) Current(ctx context.Context) (models.CurrentUser, bool, error) {
	var current models.CurrentUser
	found, err := s.store.GetJSON(ctx, store.CurrentUserKey, &current)
	if err != nil || !found || current.ID == "" {
		return models.CurrentUser{}, false, err
	}
	return current, true, nil
}

func (s *Session) users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if _, err := s.store.GetJSON(ctx, store.UsersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Session) observe(action string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.AuthAttempts.WithLabelValues(action, metrics.Outcome(err)).Inc()
}

// registrationError maps the first failed rule to its message.
func registrationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation(err.Error())
	}
	switch verrs[0].Tag() {
	case "min":
		return ErrPasswordTooShort
	case "eqfield":
		return ErrPasswordMismatch
	default:
		return ErrMissingCredentials
	}
}

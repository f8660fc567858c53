package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"medminder/internal/models"
)

// Kind of reminder a notification is about
type Kind string

const (
	KindMedication  Kind = "medication"
	KindAppointment Kind = "appointment"
)

// Notification is one delivered reminder
type Notification struct {
	Key    string    `json:"key"`
	Kind   Kind      `json:"kind"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Supported() bool
	Permission() models.Permission
	RequestPermission(ctx context.Context) (models.Permission, error)
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the structured log. It grants
// permission on request.
type LogNotifier struct {
	logger *zap.Logger

	mu         sync.Mutex
	permission models.Permission
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger, permission: models.PermissionDefault}
}

func (l *LogNotifier) Supported() bool { return true }

func (l *LogNotifier) Permission() models.Permission {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.permission
}

func (l *LogNotifier) RequestPermission(context.Context) (models.Permission, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.permission = models.PermissionGranted
	return l.permission, nil
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Info("Notification",
		zap.String("key", n.Key),
		zap.String("kind", string(n.Kind)),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
	)
	return nil
}

// Recorder keeps delivered notifications in memory and forwards them to an
// optional inner notifier. Without an inner notifier it answers permission
// requests with Answer.
type Recorder struct {
	Inner       Notifier
	Unsupported bool
	Answer      models.Permission

	mu         sync.Mutex
	permission models.Permission
	sent       []Notification
	requests   int
}

// maxRecorded bounds the in-memory feed.
const maxRecorded = 100

func NewRecorder(inner Notifier) *Recorder {
	return &Recorder{Inner: inner, Answer: models.PermissionGranted, permission: models.PermissionDefault}
}

func (r *Recorder) Supported() bool {
	if r.Unsupported {
		return false
	}
	if r.Inner != nil {
		return r.Inner.Supported()
	}
	return true
}

func (r *Recorder) Permission() models.Permission {
	if r.Inner != nil {
		return r.Inner.Permission()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.permission == "" {
		return models.PermissionDefault
	}
	return r.permission
}

// SetPermission changes what the underlying permission store reports.
func (r *Recorder) SetPermission(p models.Permission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permission = p
}

func (r *Recorder) RequestPermission(ctx context.Context) (models.Permission, error) {
	r.mu.Lock()
	r.requests++
	r.mu.Unlock()

	if r.Inner != nil {
		return r.Inner.RequestPermission(ctx)
	}
	r.SetPermission(r.Answer)
	return r.Answer, nil
}

func (r *Recorder) Notify(ctx context.Context, n Notification) error {
	if r.Inner != nil {
		if err := r.Inner.Notify(ctx, n); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	if len(r.sent) > maxRecorded {
		r.sent = r.sent[len(r.sent)-maxRecorded:]
	}
	return nil
}

// Sent returns the delivered notifications, oldest first.
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// Requests reports how many times permission was asked for.
func (r *Recorder) Requests() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests
}

package notify

import (
	"context"
	"sync"

	apperrors "medminder/internal/errors"
	"medminder/internal/models"
)

// Permissions is the per-session permission state machine:
// default -> granted | denied. The notifier is asked at most once per
// session and a denial sticks until the notifier itself reports default.
type Permissions struct {
	notifier Notifier

	mu        sync.Mutex
	status    models.Permission
	requested bool
}

// NewPermissions starts from the persisted status.
func NewPermissions(n Notifier, persisted models.Permission) *Permissions {
	p := &Permissions{notifier: n, status: persisted}
	if p.status == "" {
		p.status = models.PermissionDefault
	}
	if !n.Supported() {
		p.status = models.PermissionDenied
	}
	return p
}

func (p *Permissions) Status() models.Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Request asks the notifier for permission unless the outcome is already
// settled for this session.
func (p *Permissions) Request(ctx context.Context) (models.Permission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.notifier.Supported() {
		p.status = models.PermissionDenied
		return p.status, apperrors.ErrUnsupportedEnv
	}
	if p.status != models.PermissionDefault || p.requested {
		return p.status, nil
	}

	p.requested = true
	status, err := p.notifier.RequestPermission(ctx)
	if err != nil {
		return p.status, err
	}
	p.status = status
	return p.status, nil
}

// Sync adopts what the notifier currently reports. This is the only way
// out of denied.
func (p *Permissions) Sync() models.Permission {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.notifier.Supported() {
		p.status = models.PermissionDenied
		return p.status
	}
	switch reported := p.notifier.Permission(); reported {
	case models.PermissionDefault:
		if p.status == models.PermissionDenied {
			p.status = models.PermissionDefault
		}
	case models.PermissionGranted, models.PermissionDenied:
		p.status = reported
	}
	return p.status
}

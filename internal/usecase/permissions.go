package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/Krepchik11/geohod/internal/adapters/telegram"
	"github.com/Krepchik11/geohod/internal/domain"
)

// Permissions tracks whether the bot may message the current user.
type Permissions struct {
	requester   domain.WriteAccessRequester
	environment string

	mu       sync.Mutex
	granted  bool
	checking bool
	err      error
}

// NewPermissions returns a permission checker. environment follows the
// config's GO_ENV; outside production the check is bypassed entirely.
func NewPermissions(requester domain.WriteAccessRequester, environment string) *Permissions {
	return &Permissions{requester: requester, environment: environment}
}

// CheckWriteAccess resolves write access for the launch user: development
// bypass first, then the already-granted flag carried in the launch context,
// then an explicit request to the host. A refused or failed request yields
// domain.ErrPermissionDenied.
func (p *Permissions) CheckWriteAccess(ctx context.Context, lc *telegram.LaunchContext) (bool, error) {
	if p.environment != "production" {
		p.setGranted(true)
		return true, nil
	}

	p.mu.Lock()
	if p.checking {
		granted := p.granted
		p.mu.Unlock()
		return granted, nil
	}
	p.checking = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.checking = false
		p.mu.Unlock()
	}()

	if lc != nil && lc.User != nil && lc.User.AllowsWriteToPM {
		p.setGranted(true)
		return true, nil
	}

	granted, err := p.requester.RequestWriteAccess(ctx)
	if err != nil {
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		return false, fmt.Errorf("%w: %v", domain.ErrPermissionDenied, err)
	}
	p.setGranted(granted)
	if !granted {
		return false, domain.ErrPermissionDenied
	}
	return true, nil
}

// Granted reports the last known write-access state.
func (p *Permissions) Granted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted
}

// Reset clears all permission state.
func (p *Permissions) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.granted = false
	p.checking = false
	p.err = nil
}

func (p *Permissions) setGranted(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.granted = v
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/Krepchik11/geohod/internal/adapters/telegram"
	"github.com/Krepchik11/geohod/internal/domain"
)

// GuardDecision is the outcome of the registration route guard.
type GuardDecision int

const (
	// Proceed continues to the registration view.
	Proceed GuardDecision = iota
	// RedirectHome sends the user back to the event list.
	RedirectHome
)

// RegistrationGuard decides whether a registration deep link may proceed:
// users without a username and users already on the participant list are
// sent home.
type RegistrationGuard struct {
	gateway domain.EventsGateway
	logger  *slog.Logger
}

// NewRegistrationGuard returns the guard for registration routes.
func NewRegistrationGuard(gateway domain.EventsGateway, logger *slog.Logger) *RegistrationGuard {
	return &RegistrationGuard{gateway: gateway, logger: logger}
}

// Check resolves the guard for the given event. A failed participant fetch
// allows the navigation: the server re-checks registration anyway, so the
// guard only short-circuits the obvious cases it can prove.
func (g *RegistrationGuard) Check(ctx context.Context, lc *telegram.LaunchContext, eventID string) GuardDecision {
	if lc == nil || lc.User == nil || lc.User.Username == "" {
		g.logger.Error("no username in launch context, redirecting home")
		return RedirectHome
	}

	participants, err := g.gateway.ListParticipants(ctx, eventID)
	if err != nil {
		g.logger.Error("participant list fetch failed", "event_id", eventID, "error", err)
		return Proceed
	}
	for _, p := range participants {
		if p.Username == lc.User.Username {
			return RedirectHome
		}
	}
	return Proceed
}

package domain

import "context"

// EventsGateway exposes domain-shaped operations over the events backend.
// The production implementation talks to the remote REST service; the fixture
// implementation serves an in-memory data set with equivalent semantics, so
// the store and use-case layers stay backend-agnostic.
type EventsGateway interface {
	// ListEvents returns one page of events. Pages are zero-based.
	ListEvents(ctx context.Context, page, pageSize int) (EventPage, error)
	RegisterForEvent(ctx context.Context, id string) error
	UnregisterFromEvent(ctx context.Context, id string) error
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (*Event, error)
	CreateEvent(ctx context.Context, input CreateEventInput) (*Event, error)
	ListParticipants(ctx context.Context, id string) ([]Participant, error)
}

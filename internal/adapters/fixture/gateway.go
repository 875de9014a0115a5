// Package fixture provides an in-memory events backend with the same
// semantics as the remote service, used when no live backend is targeted.
package fixture

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Krepchik11/geohod/internal/domain"
)

// Gateway serves a seeded in-memory event set. All operations are safe for
// concurrent use; ids assigned on create are a monotonic local counter.
type Gateway struct {
	mu     sync.Mutex
	events []domain.Event
	nextID int
}

// NewGateway returns a fixture gateway seeded with demo events.
func NewGateway() *Gateway {
	date := time.Date(2025, time.March, 23, 13, 58, 25, 0, time.UTC)
	seed := []domain.Event{
		{
			ID:                  "1",
			Name:                "Team Planning Meeting",
			Description:         "Weekly team sync to discuss project progress",
			Date:                date,
			MaxParticipants:     30,
			CurrentParticipants: 15,
			Status:              domain.StatusActive,
			Author:              domain.Author{ID: "555", Username: "qwake", Name: "Aleksei"},
		},
		{
			ID:                  "2",
			Name:                "Product Launch",
			Description:         "New feature release presentation",
			Date:                date,
			MaxParticipants:     30,
			CurrentParticipants: 0,
			Status:              domain.StatusActive,
			Author:              domain.Author{ID: "777", Username: "geohod", Name: "Geo Hod"},
		},
		{
			ID:                  "3",
			Name:                "Client Meeting",
			Description:         "Quarterly review with major client",
			Date:                date,
			MaxParticipants:     30,
			CurrentParticipants: 7,
			Status:              domain.StatusFinished,
			Author:              domain.Author{ID: "999", Username: "jonsy", Name: "Mike Johnson"},
		},
	}
	return &Gateway{events: seed, nextID: len(seed) + 1}
}

func (g *Gateway) ListEvents(ctx context.Context, page, pageSize int) (domain.EventPage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if pageSize < 1 {
		return domain.EventPage{}, fmt.Errorf("invalid page size %d", pageSize)
	}
	totalPages := (len(g.events) + pageSize - 1) / pageSize

	start := page * pageSize
	if start >= len(g.events) {
		return domain.EventPage{Items: []domain.Event{}, TotalPages: totalPages}, nil
	}
	end := start + pageSize
	if end > len(g.events) {
		end = len(g.events)
	}

	items := make([]domain.Event, end-start)
	copy(items, g.events[start:end])
	return domain.EventPage{Items: items, TotalPages: totalPages}, nil
}

func (g *Gateway) RegisterForEvent(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ev := g.find(id)
	if ev == nil {
		return domain.ErrNotFound
	}
	if ev.CurrentParticipants < ev.MaxParticipants {
		ev.CurrentParticipants++
	}
	return nil
}

func (g *Gateway) UnregisterFromEvent(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ev := g.find(id)
	if ev == nil {
		return domain.ErrNotFound
	}
	if ev.CurrentParticipants == 0 {
		return domain.ErrNoParticipants
	}
	ev.CurrentParticipants--
	return nil
}

func (g *Gateway) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ev := g.find(id)
	if ev == nil {
		return nil, domain.ErrNotFound
	}
	patch.Apply(ev)
	out := *ev
	return &out, nil
}

func (g *Gateway) CreateEvent(ctx context.Context, input domain.CreateEventInput) (*domain.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ev := domain.Event{
		ID:              strconv.Itoa(g.nextID),
		Name:            input.Name,
		Description:     input.Description,
		Date:            input.Date,
		MaxParticipants: input.MaxParticipants,
		Status:          domain.StatusActive,
		Author:          input.Author,
	}
	g.nextID++
	g.events = append(g.events, ev)
	out := ev
	return &out, nil
}

func (g *Gateway) ListParticipants(ctx context.Context, id string) ([]domain.Participant, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ev := g.find(id)
	if ev == nil {
		return nil, domain.ErrNotFound
	}
	// The fixture set tracks counts, not identities; the author stands in as
	// the only named participant when anyone is registered.
	if ev.CurrentParticipants == 0 {
		return []domain.Participant{}, nil
	}
	return []domain.Participant{{Username: ev.Author.Username, Name: ev.Author.Name}}, nil
}

// DeleteEvent removes an event outright. The remote service never hard
// deletes; this exists for the local demo path only.
func (g *Gateway) DeleteEvent(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.events {
		if g.events[i].ID == id {
			g.events = append(g.events[:i], g.events[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// find returns a pointer into the backing slice; callers hold the mutex.
func (g *Gateway) find(id string) *domain.Event {
	for i := range g.events {
		if g.events[i].ID == id {
			return &g.events[i]
		}
	}
	return nil
}

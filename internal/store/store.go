// Package store holds the client-side event cache: the known event list, the
// set of events the current user is registered for, and the pagination
// cursor. All remote access goes through the events gateway; consumers read
// state only through the derived views.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Krepchik11/geohod/internal/domain"
)

// Store is the process-wide event cache. It owns its collections
// exclusively: orchestration and presentation code mutate state only through
// Store methods. A mutex stands in for the host's single-threaded model.
type Store struct {
	gateway domain.EventsGateway
	snap    domain.SnapshotRepository // optional best-effort persistence
	logger  *slog.Logger

	mu              sync.Mutex
	events          []domain.Event
	registeredIDs   map[string]struct{}
	disabledEventID string
	currentPage     int
	pageSize        int
	totalPages      int
	loading         bool
	err             error
}

// New returns an empty Store backed by the given gateway. snap may be nil to
// disable snapshot persistence.
func New(gateway domain.EventsGateway, snap domain.SnapshotRepository, logger *slog.Logger, pageSize int) *Store {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Store{
		gateway:       gateway,
		snap:          snap,
		logger:        logger,
		registeredIDs: make(map[string]struct{}),
		pageSize:      pageSize,
	}
}

// FetchEvents loads the next page from the gateway and appends it to the
// cached list. It is a no-op while a fetch is already in flight and once
// pagination is exhausted; the in-flight caller's result is authoritative.
// On failure the error is recorded and returned; pages appended by earlier
// successful calls are never rolled back.
func (s *Store) FetchEvents(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	if s.currentPage > 0 && s.currentPage >= s.totalPages {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.err = nil
	page, size := s.currentPage, s.pageSize
	s.mu.Unlock()

	result, err := s.gateway.ListEvents(ctx, page, size)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err
		return fmt.Errorf("fetch events: %w", err)
	}

	s.events = append(s.events, result.Items...)
	s.currentPage++
	s.totalPages = result.TotalPages
	s.persistLocked(ctx)
	return nil
}

// RegisterForEvent registers the current user for the event. Local state is
// touched only after the gateway confirms: the id joins the registered set
// and the cached participant count goes up, bounded by capacity.
func (s *Store) RegisterForEvent(ctx context.Context, id string) error {
	if err := s.gateway.RegisterForEvent(ctx, id); err != nil {
		return fmt.Errorf("register for event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredIDs[id] = struct{}{}
	if ev := s.findLocked(id); ev != nil && ev.CurrentParticipants < ev.MaxParticipants {
		ev.CurrentParticipants++
	}
	s.persistLocked(ctx)
	return nil
}

// UnregisterFromEvent is the inverse of RegisterForEvent, with the count
// floored at zero.
func (s *Store) UnregisterFromEvent(ctx context.Context, id string) error {
	if err := s.gateway.UnregisterFromEvent(ctx, id); err != nil {
		return fmt.Errorf("unregister from event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registeredIDs, id)
	if ev := s.findLocked(id); ev != nil && ev.CurrentParticipants > 0 {
		ev.CurrentParticipants--
	}
	s.persistLocked(ctx)
	return nil
}

// UpdateEventLocally merges a partial patch into the cached record without a
// remote call, reflecting a just-confirmed remote update.
func (s *Store) UpdateEventLocally(ctx context.Context, id string, patch domain.EventPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := s.findLocked(id)
	if ev == nil {
		return domain.ErrNotFound
	}
	patch.Apply(ev)
	s.persistLocked(ctx)
	return nil
}

// AddEventLocally appends a just-created event to the cache.
func (s *Store) AddEventLocally(ctx context.Context, ev domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	s.persistLocked(ctx)
}

// RemoveEventLocally drops an event from the cache and the registered set.
// The remote service never hard deletes; this serves the local demo path.
func (s *Store) RemoveEventLocally(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			break
		}
	}
	delete(s.registeredIDs, id)
	s.persistLocked(ctx)
}

// SetDisabledEventID marks an event as having an action in flight. The store
// only records the flag; callers are responsible for honoring it.
func (s *Store) SetDisabledEventID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabledEventID = id
}

// ClearDisabledEventID clears the advisory flag.
func (s *Store) ClearDisabledEventID() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabledEventID = ""
}

// DisabledEventID returns the advisory in-flight event id, or "".
func (s *Store) DisabledEventID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabledEventID
}

// Events returns a copy of the cached event list in server order.
func (s *Store) Events() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

// RegisteredEvents returns the cached events the current user is registered for.
func (s *Store) RegisteredEvents() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Event{}
	for _, ev := range s.events {
		if _, ok := s.registeredIDs[ev.ID]; ok {
			out = append(out, ev)
		}
	}
	return out
}

// EventByID looks up a cached event by id.
func (s *Store) EventByID(id string) (domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev := s.findLocked(id); ev != nil {
		return *ev, true
	}
	return domain.Event{}, false
}

// IsRegistered reports whether the current user is registered for the event.
func (s *Store) IsRegistered(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.registeredIDs[id]
	return ok
}

// HasEvents reports whether any events are cached.
func (s *Store) HasEvents() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events) > 0
}

// IsLoading reports whether a fetch is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error, cleared on the next fetch attempt.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// CurrentPage returns the next page index to be fetched.
func (s *Store) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

// TotalPages returns the page count reported by the last successful fetch.
func (s *Store) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

// RestoreSnapshot seeds the cache from the snapshot repository. Pagination
// state is left untouched so the next fetch still starts from page zero.
// Failures are logged and swallowed: the snapshot is best effort.
func (s *Store) RestoreSnapshot(ctx context.Context) {
	if s.snap == nil {
		return
	}
	events, ids, err := s.snap.Load(ctx)
	if err != nil {
		s.logger.Warn("snapshot restore failed", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) > 0 {
		return
	}
	s.events = events
	for _, id := range ids {
		s.registeredIDs[id] = struct{}{}
	}
}

// persistLocked saves a snapshot of the current state; callers hold the mutex.
func (s *Store) persistLocked(ctx context.Context) {
	if s.snap == nil {
		return
	}
	events := make([]domain.Event, len(s.events))
	copy(events, s.events)
	ids := make([]string, 0, len(s.registeredIDs))
	for id := range s.registeredIDs {
		ids = append(ids, id)
	}
	if err := s.snap.Save(ctx, events, ids); err != nil {
		s.logger.Warn("snapshot save failed", "error", err)
	}
}

// findLocked returns a pointer into the backing slice; callers hold the mutex.
func (s *Store) findLocked(id string) *domain.Event {
	for i := range s.events {
		if s.events[i].ID == id {
			return &s.events[i]
		}
	}
	return nil
}

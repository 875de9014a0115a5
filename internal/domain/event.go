package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a referenced event does not exist.
var ErrNotFound = errors.New("event not found")

// ErrNoParticipants is returned when unregistering from an event whose
// participant count is already zero. It matches ErrNotFound under errors.Is
// so callers that only distinguish found/not-found keep working.
var ErrNoParticipants = fmt.Errorf("%w: no participants", ErrNotFound)

// ErrPermissionDenied is returned when the host environment does not grant
// write access to the bot.
var ErrPermissionDenied = errors.New("write access not granted")

// ErrUnavailable is returned when the launch context cannot be resolved from
// the hosting environment.
var ErrUnavailable = errors.New("launch context unavailable")

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusActive   EventStatus = "ACTIVE"
	StatusFinished EventStatus = "FINISHED"
)

// Author identifies the user who created an event.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Event represents a schedulable activity with a participant capacity.
// IDs are assigned by the remote system on create; the fixture backend
// assigns monotonic local ids instead.
type Event struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Description         string      `json:"description"`
	Date                time.Time   `json:"date"`
	MaxParticipants     int         `json:"maxParticipants"`
	CurrentParticipants int         `json:"currentParticipants"`
	Status              EventStatus `json:"status"`
	Author              Author      `json:"author"`
}

// EventPatch is a partial update of an event. Nil fields are left unchanged.
type EventPatch struct {
	Name            *string      `json:"name,omitempty"`
	Description     *string      `json:"description,omitempty"`
	Date            *time.Time   `json:"date,omitempty"`
	MaxParticipants *int         `json:"maxParticipants,omitempty"`
	Status          *EventStatus `json:"status,omitempty"`
}

// Apply merges the patch into the event.
func (p EventPatch) Apply(e *Event) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.MaxParticipants != nil {
		e.MaxParticipants = *p.MaxParticipants
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
}

// EventPage is one page of the remote event list.
type EventPage struct {
	Items      []Event
	TotalPages int
}

// Participant is one registered attendee of an event, as reported by the
// participants endpoint.
type Participant struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// CreateEventInput carries the caller-supplied fields of a new event.
// The backend assigns id, sets currentParticipants to zero, and marks the
// event ACTIVE.
type CreateEventInput struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	MaxParticipants int       `json:"maxParticipants"`
	Author          Author    `json:"author"`
}

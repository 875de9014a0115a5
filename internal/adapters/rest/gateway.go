package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/Krepchik11/geohod/internal/domain"
)

// GatewayError wraps a failed gateway operation with its name.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }

// Gateway implements domain.EventsGateway against the remote REST service.
type Gateway struct {
	client *Client
	logger *slog.Logger
}

// NewGateway returns the production events gateway.
func NewGateway(client *Client, logger *slog.Logger) domain.EventsGateway {
	return &Gateway{client: client, logger: logger}
}

// listResponse is the raw shape of the paginated list endpoint. Content is
// kept raw so a missing or non-array value can be normalized to an empty
// list instead of surfacing a decode error; downstream code never re-checks
// the shape.
type listResponse struct {
	Content json.RawMessage `json:"content"`
	Page    struct {
		TotalPages int `json:"totalPages"`
	} `json:"page"`
}

func (g *Gateway) ListEvents(ctx context.Context, page, pageSize int) (domain.EventPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(pageSize))

	var raw listResponse
	if err := g.client.Get(ctx, "/api/v1/events?"+q.Encode(), &raw); err != nil {
		return domain.EventPage{}, &GatewayError{Op: "list events", Err: err}
	}

	items := []domain.Event{}
	if len(raw.Content) > 0 {
		if err := json.Unmarshal(raw.Content, &items); err != nil {
			// Malformed content is normalized to an empty page rather than
			// raised; the page metadata is kept if it decoded.
			g.logger.Warn("event list content has unexpected shape, treating as empty")
			items = []domain.Event{}
		}
	}
	return domain.EventPage{Items: items, TotalPages: raw.Page.TotalPages}, nil
}

func (g *Gateway) RegisterForEvent(ctx context.Context, id string) error {
	if err := g.client.Post(ctx, "/api/v1/events/"+url.PathEscape(id)+"/register", nil, nil); err != nil {
		return &GatewayError{Op: "register for event", Err: err}
	}
	return nil
}

func (g *Gateway) UnregisterFromEvent(ctx context.Context, id string) error {
	if err := g.client.Delete(ctx, "/api/v1/events/"+url.PathEscape(id)+"/unregister", nil); err != nil {
		return &GatewayError{Op: "unregister from event", Err: err}
	}
	return nil
}

func (g *Gateway) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	var ev domain.Event
	if err := g.client.Put(ctx, "/api/v1/events/"+url.PathEscape(id), patch, &ev); err != nil {
		return nil, &GatewayError{Op: "update event", Err: err}
	}
	return &ev, nil
}

func (g *Gateway) CreateEvent(ctx context.Context, input domain.CreateEventInput) (*domain.Event, error) {
	var ev domain.Event
	if err := g.client.Post(ctx, "/api/v1/events", input, &ev); err != nil {
		return nil, &GatewayError{Op: "create event", Err: err}
	}
	return &ev, nil
}

func (g *Gateway) ListParticipants(ctx context.Context, id string) ([]domain.Participant, error) {
	var resp struct {
		Participants []domain.Participant `json:"participants"`
	}
	if err := g.client.Get(ctx, "/api/v1/events/"+url.PathEscape(id)+"/participants", &resp); err != nil {
		return nil, &GatewayError{Op: "list participants", Err: err}
	}
	if resp.Participants == nil {
		resp.Participants = []domain.Participant{}
	}
	return resp.Participants, nil
}

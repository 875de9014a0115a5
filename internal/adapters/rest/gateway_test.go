package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krepchik11/geohod/internal/domain"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) domain.EventsGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "init-data", nil, testLogger())
	return NewGateway(client, testLogger())
}

func TestGateway_ListEvents(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantItems      int
		wantTotalPages int
	}{
		{
			name:           "well formed page",
			body:           `{"content":[{"id":"1","name":"Hike","maxParticipants":30,"currentParticipants":5,"status":"ACTIVE"},{"id":"2","name":"Ride","status":"FINISHED"}],"page":{"totalPages":2}}`,
			wantItems:      2,
			wantTotalPages: 2,
		},
		{
			name:           "missing content normalizes to empty",
			body:           `{"page":{"totalPages":3}}`,
			wantItems:      0,
			wantTotalPages: 3,
		},
		{
			name:           "non-array content normalizes to empty",
			body:           `{"content":"oops","page":{"totalPages":1}}`,
			wantItems:      0,
			wantTotalPages: 1,
		},
		{
			name:           "empty object",
			body:           `{}`,
			wantItems:      0,
			wantTotalPages: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				w.Write([]byte(tt.body))
			})

			page, err := gw.ListEvents(context.Background(), 0, 10)
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.wantItems)
			assert.Equal(t, tt.wantTotalPages, page.TotalPages)
			assert.Contains(t, gotQuery, "page=0")
			assert.Contains(t, gotQuery, "size=10")
		})
	}
}

func TestGateway_ListEvents_RemoteFailure(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	_, err := gw.ListEvents(context.Background(), 0, 10)
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusServiceUnavailable, remoteErr.Status)
}

func TestGateway_RegisterAndUnregisterPaths(t *testing.T) {
	var gotMethod, gotPath string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, gw.RegisterForEvent(context.Background(), "42"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/v1/events/42/register", gotPath)

	require.NoError(t, gw.UnregisterFromEvent(context.Background(), "42"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/events/42/unregister", gotPath)
}

func TestGateway_UpdateAndCreate(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut:
			w.Write([]byte(`{"id":"42","name":"Renamed","status":"ACTIVE"}`))
		case r.Method == http.MethodPost:
			w.Write([]byte(`{"id":"100","name":"Created","status":"ACTIVE"}`))
		default:
			http.Error(w, "bad method", http.StatusMethodNotAllowed)
		}
	})

	name := "Renamed"
	updated, err := gw.UpdateEvent(context.Background(), "42", domain.EventPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	created, err := gw.CreateEvent(context.Background(), domain.CreateEventInput{Name: "Created"})
	require.NoError(t, err)
	assert.Equal(t, "100", created.ID)
}

func TestGateway_ListParticipants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "participants present", body: `{"participants":[{"username":"qwake","name":"Aleksei"}]}`, want: 1},
		{name: "missing list normalizes to empty", body: `{}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/events/42/participants", r.URL.Path)
				w.Write([]byte(tt.body))
			})

			participants, err := gw.ListParticipants(context.Background(), "42")
			require.NoError(t, err)
			require.NotNil(t, participants)
			assert.Len(t, participants, tt.want)
		})
	}
}

package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "user-1"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func TestAuthorize(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr bool
		wantExp time.Time
	}{
		{
			name: "token with expiry",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"token": signedToken(t, exp)})
			},
			wantExp: exp,
		},
		{
			name: "token without exp claim never expires client-side",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"token": signedToken(t, time.Time{})})
			},
		},
		{
			name: "empty token rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"token": ""})
			},
			wantErr: true,
		},
		{
			name: "remote failure propagates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusUnauthorized)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth, gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotPath = r.URL.Path
				tt.handler(w, r)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "raw-init-data", nil, testLogger())
			sess, err := Authorize(context.Background(), client)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			// The exchange sends the init-data credential to the authorize path.
			assert.Equal(t, "raw-init-data", gotAuth)
			assert.Equal(t, "/api/authorize", gotPath)
			assert.NotEmpty(t, sess.Token)
			assert.Equal(t, tt.wantExp.UTC(), sess.ExpiresAt.UTC())
		})
	}
}

func TestAuthorize_SwitchesClientToBearer(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	var lastAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastAuth = r.Header.Get("Authorization")
		if r.URL.Path == "/api/authorize" {
			json.NewEncoder(w).Encode(map[string]string{"token": token})
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "raw-init-data", nil, testLogger())
	_, err := Authorize(context.Background(), client)
	require.NoError(t, err)

	require.NoError(t, client.Get(context.Background(), "/api/v1/events", nil))
	assert.Equal(t, "Bearer "+token, lastAuth)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{Token: "t"}.Expired(now))
	assert.False(t, Session{Token: "t", ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{Token: "t", ExpiresAt: now.Add(-time.Minute)}.Expired(now))
}

package rest

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is a bearer token issued by the authorize endpoint in exchange for
// the launch init-data. ExpiresAt is zero when the token carries no exp claim.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the session token is past its exp claim. Tokens
// without an exp claim never expire client-side.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Authorize exchanges the client's current credential (the init-data string)
// for a session token. The token signature is not verified here: the server
// signs and verifies its own tokens, the client only inspects the exp claim
// to know when a re-exchange is due. On success the client's authorization
// value is switched to the bearer token.
func Authorize(ctx context.Context, client *Client) (Session, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := client.Post(ctx, "/api/authorize", nil, &resp); err != nil {
		return Session{}, fmt.Errorf("authorize: %w", err)
	}
	if resp.Token == "" {
		return Session{}, fmt.Errorf("authorize: empty token in response")
	}

	sess := Session{Token: resp.Token}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.Token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			sess.ExpiresAt = exp.Time
		}
	}

	client.SetAuth("Bearer " + sess.Token)
	return sess, nil
}

package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krepchik11/geohod/internal/domain"
)

// signInitData produces a protocol-valid init-data string for tests.
func signInitData(params url.Values, botToken string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+params.Get(k))
	}
	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	params.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return params.Encode()
}

func TestResolveLaunchContext(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantErr      error
		wantUsername string
		wantStart    string
	}{
		{
			name:         "full context",
			raw:          "auth_date=1711200000&start_param=registration_42&user=" + url.QueryEscape(`{"id":555,"username":"qwake","first_name":"Aleksei","allows_write_to_pm":true}`),
			wantUsername: "qwake",
			wantStart:    "registration_42",
		},
		{
			name: "no user block",
			raw:  "auth_date=1711200000&query_id=abc",
		},
		{name: "blank input", raw: "   ", wantErr: domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc, err := ResolveLaunchContext(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, lc.StartParam)
			if tt.wantUsername == "" {
				assert.Nil(t, lc.User)
			} else {
				require.NotNil(t, lc.User)
				assert.Equal(t, tt.wantUsername, lc.User.Username)
				assert.True(t, lc.User.AllowsWriteToPM)
				assert.EqualValues(t, 555, lc.User.ID)
			}
			assert.False(t, lc.AuthDate.IsZero())
		})
	}
}

func TestVerifyInitData(t *testing.T) {
	const botToken = "12345:test-token"
	params := url.Values{}
	params.Set("auth_date", "1711200000")
	params.Set("user", `{"id":555,"username":"qwake"}`)
	signed := signInitData(params, botToken)

	require.NoError(t, VerifyInitData(signed, botToken))

	t.Run("tampered payload rejected", func(t *testing.T) {
		tampered := strings.Replace(signed, "qwake", "evil", 1)
		assert.Error(t, VerifyInitData(tampered, botToken))
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		assert.Error(t, VerifyInitData(signed, "другой:токен"))
	})

	t.Run("missing hash rejected", func(t *testing.T) {
		assert.Error(t, VerifyInitData("auth_date=1711200000", botToken))
	})
}

func TestParseStartParam(t *testing.T) {
	id, ok := ParseStartParam("registration_42")
	require.True(t, ok)
	assert.Equal(t, "42", id)

	_, ok = ParseStartParam("promo_42")
	assert.False(t, ok)

	_, ok = ParseStartParam("")
	assert.False(t, ok)
}

func TestEventLink(t *testing.T) {
	assert.Equal(t, "https://t.me/mybot/app?startapp=registration_42", EventLink("mybot", "42"))
}

func TestThemeParams(t *testing.T) {
	vars, err := ThemeParams(`{"bg_color":"#ffffff","text_color":"#000000"}`)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", vars["--tg-theme-bg_color"])
	assert.Equal(t, "#000000", vars["--tg-theme-text_color"])

	empty, err := ThemeParams("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ThemeParams("not-json")
	assert.Error(t, err)
}

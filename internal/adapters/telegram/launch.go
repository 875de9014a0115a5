// Package telegram binds the client to its hosting environment: the launch
// init-data, deep-link parameters, theme variables, and bot-backed
// notifications.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Krepchik11/geohod/internal/domain"
)

// User is the launch-context user extracted from init-data.
type User struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	AllowsWriteToPM bool   `json:"allows_write_to_pm"`
}

// LaunchContext is the hosting environment's launch state, resolved once at
// startup. Consumers receive the resolved value instead of probing nested
// optionals themselves.
type LaunchContext struct {
	Raw        string
	User       *User
	StartParam string
	AuthDate   time.Time
}

// ResolveLaunchContext parses the raw init-data string. A blank input yields
// domain.ErrUnavailable, the typed stand-in for "not running inside the host".
func ResolveLaunchContext(raw string) (*LaunchContext, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrUnavailable
	}
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("parse init data: %w", err)
	}

	lc := &LaunchContext{Raw: raw, StartParam: vals.Get("start_param")}
	if s := vals.Get("auth_date"); s != "" {
		if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
			lc.AuthDate = time.Unix(ts, 0)
		}
	}
	if userJSON := vals.Get("user"); userJSON != "" {
		var u User
		if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
			return nil, fmt.Errorf("parse init data user: %w", err)
		}
		lc.User = &u
	}
	return lc, nil
}

// VerifyInitData checks the init-data signature against the bot token, per
// the WebApp protocol: the secret key is HMAC-SHA256("WebAppData", token)
// and the check string is the sorted key=value lines excluding hash.
func VerifyInitData(raw, botToken string) error {
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return fmt.Errorf("parse init data: %w", err)
	}
	gotHash := vals.Get("hash")
	if gotHash == "" {
		return fmt.Errorf("init data carries no hash")
	}

	keys := make([]string, 0, len(vals))
	for k := range vals {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+vals.Get(k))
	}
	checkString := strings.Join(lines, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	want := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(want), []byte(gotHash)) {
		return fmt.Errorf("init data signature mismatch")
	}
	return nil
}

// startParamPrefix marks deep links into the registration view.
const startParamPrefix = "registration_"

// ParseStartParam extracts the event id from a registration deep link.
func ParseStartParam(param string) (eventID string, ok bool) {
	return strings.CutPrefix(param, startParamPrefix)
}

// EventLink builds the shareable deep-link URL for an event.
func EventLink(botName, eventID string) string {
	return fmt.Sprintf("https://t.me/%s/app?startapp=%s%s", botName, startParamPrefix, eventID)
}

// ThemeParams maps the host theme JSON onto --tg-theme-* CSS variable names.
// Unknown keys pass through; a blank input yields an empty map.
func ThemeParams(themeJSON string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(themeJSON) == "" {
		return out, nil
	}
	var params map[string]string
	if err := json.Unmarshal([]byte(themeJSON), &params); err != nil {
		return nil, fmt.Errorf("parse theme params: %w", err)
	}
	for k, v := range params {
		out["--tg-theme-"+k] = v
	}
	return out, nil
}

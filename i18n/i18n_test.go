package i18n

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
)

type backendErr string

func (e backendErr) Error() string          { return string(e) }
func (e backendErr) BackendMessage() string { return string(e) }

func TestFromRequest(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "ro"},
		{"en-US,en;q=0.9", "en"},
		{"de-DE, en;q=0.5", "en"},
		{"ro-RO", "ro"},
		{"fr", "ro"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Accept-Language", tt.header)
		}
		if got := FromRequest(r).Locale(); got != tt.want {
			t.Errorf("Accept-Language %q: expected locale %s, got %s", tt.header, tt.want, got)
		}
	}
}

func TestFriendly(t *testing.T) {
	en := Translator("en")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain error", errors.New("dial tcp: refused"), messages["en"][Generic]},
		{"duplicate email", backendErr("Email already exists"), messages["en"][EmailExists]},
		{"duplicate key", backendErr("ERROR: Duplicate key value"), messages["en"][EmailExists]},
		{"bad credentials", backendErr("Bad credentials"), messages["en"][BadCredentials]},
		{"user not found", backendErr("User not found"), messages["en"][UserNotFound]},
		{"stripe kept verbatim", backendErr("Eroare Stripe: card declined"), "Eroare Stripe: card declined"},
		{"wrapped", fmt.Errorf("login: %w", backendErr("Bad credentials")), messages["en"][BadCredentials]},
		{"unknown message", backendErr("boom"), messages["en"][Generic]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Friendly(tt.err, en); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMessagesCoverEveryLocale(t *testing.T) {
	for key := range messages["ro"] {
		if _, ok := messages["en"][key]; !ok {
			t.Errorf("key %s has no english message", key)
		}
	}
	if got := T(Translator("ro"), "no-such-key"); got != "no-such-key" {
		t.Fatalf("expected unknown key to be returned as is, got %q", got)
	}
}

package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/velomax/partner-client/pkg/store"
)

func TestSaveCredentialsRoundTrip(t *testing.T) {
	ctx := context.Background()
	sess := New(store.NewMemory(), nil)

	if sess.IsAuthenticated(ctx) {
		t.Fatal("fresh session must not be authenticated")
	}

	sess.SaveCredentials(ctx, "tok-abc", `{"phoneNumber":"+919876543210"}`, "delivery")

	if got := sess.Token(ctx); got != "tok-abc" {
		t.Fatalf("unexpected token %q", got)
	}
	if got := sess.User(ctx); got != `{"phoneNumber":"+919876543210"}` {
		t.Fatalf("unexpected user %q", got)
	}
	if got := sess.Role(ctx); got != "delivery" {
		t.Fatalf("unexpected role %q", got)
	}
	if !sess.IsAuthenticated(ctx) {
		t.Fatal("session should be authenticated after save")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	sess := New(store.NewMemory(), nil)
	sess.SaveCredentials(ctx, "tok", `{}`, "delivery")

	sess.Clear(ctx)
	sess.Clear(ctx)

	if sess.Token(ctx) != "" || sess.User(ctx) != "" || sess.Role(ctx) != "" {
		t.Fatal("expected all keys empty after double clear")
	}
	if sess.IsAuthenticated(ctx) {
		t.Fatal("cleared session must not be authenticated")
	}
}

func TestOnChangeSignals(t *testing.T) {
	ctx := context.Background()
	sess := New(store.NewMemory(), nil)

	var events []bool
	sess.OnChange(func(authenticated bool) {
		events = append(events, authenticated)
	})

	sess.SaveCredentials(ctx, "tok", `{}`, "")
	sess.Clear(ctx)

	if len(events) != 2 || events[0] != true || events[1] != false {
		t.Fatalf("unexpected change events %v", events)
	}
}

func TestIsAuthenticatedNeedsBothTokenAndUser(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	sess := New(mem, nil)

	if err := mem.Set(ctx, KeyToken, "tok"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if sess.IsAuthenticated(ctx) {
		t.Fatal("token without user must not count as authenticated")
	}

	if err := mem.Set(ctx, KeyUser, `{}`); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if !sess.IsAuthenticated(ctx) {
		t.Fatal("token plus user should be authenticated")
	}
}

func TestTokenExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{name: "no token", token: "", expired: false},
		{name: "opaque token", token: "not-a-jwt", expired: false},
		{name: "jwt without exp", token: unsignedJWT(t, map[string]any{"sub": "p1"}), expired: false},
		{name: "future exp", token: unsignedJWT(t, map[string]any{"exp": now.Add(time.Hour).Unix()}), expired: false},
		{name: "past exp", token: unsignedJWT(t, map[string]any{"exp": now.Add(-time.Hour).Unix()}), expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := New(store.NewMemory(), nil)
			if tt.token != "" {
				sess.SaveCredentials(ctx, tt.token, `{}`, "")
			}
			if got := sess.TokenExpired(ctx, now); got != tt.expired {
				t.Fatalf("expected expired=%v got %v", tt.expired, got)
			}
		})
	}
}

// unsignedJWT builds a structurally valid JWT with a bogus signature; expiry
// inspection never verifies it.
func unsignedJWT(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	enc := base64.RawURLEncoding
	return fmt.Sprintf("%s.%s.%s", enc.EncodeToString(header), enc.EncodeToString(payload), enc.EncodeToString([]byte("sig")))
}

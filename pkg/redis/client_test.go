package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/velomax/partner-client/pkg/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := New(context.Background(), config.RedisConfig{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClientSetGetDel(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	key := client.SessionKey("token")
	if err := client.Set(ctx, key, "abc", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "abc" {
		t.Fatalf("unexpected value %q", value)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := client.Get(ctx, key); !IsNil(err) {
		t.Fatalf("expected nil sentinel after delete, got %v", err)
	}
}

func TestSessionKeyNamespacing(t *testing.T) {
	client := newTestClient(t)

	if got := client.SessionKey("token"); got != "velomax:session:token" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := client.SessionKey("user"); got != "velomax:session:user" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNewRequiresAddress(t *testing.T) {
	if _, err := New(context.Background(), config.RedisConfig{}); err == nil {
		t.Fatal("expected missing address to error")
	}
}

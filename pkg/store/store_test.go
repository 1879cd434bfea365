package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/velomax/partner-client/pkg/config"
	redisclient "github.com/velomax/partner-client/pkg/redis"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFile(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	mr := miniredis.RunT(t)
	client, err := redisclient.New(context.Background(), config.RedisConfig{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("new redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"file":   fileStore,
		"redis":  NewRedis(client),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := s.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound for missing key, got %v", err)
			}

			if err := s.Set(ctx, "token", "abc"); err != nil {
				t.Fatalf("set: %v", err)
			}
			value, err := s.Get(ctx, "token")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if value != "abc" {
				t.Fatalf("unexpected value %q", value)
			}

			if err := s.Del(ctx, "token", "user"); err != nil {
				t.Fatalf("del: %v", err)
			}
			if _, err := s.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}

			// Deleting missing keys is a no-op, not an error.
			if err := s.Del(ctx, "token"); err != nil {
				t.Fatalf("second del: %v", err)
			}
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first, err := NewFile(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := first.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}

	second, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen file store: %v", err)
	}
	value, err := second.Get(ctx, "token")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if value != "abc" {
		t.Fatalf("unexpected value %q", value)
	}
}

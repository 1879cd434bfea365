package store

import (
	"context"

	redisclient "github.com/velomax/partner-client/pkg/redis"
)

// Redis adapts the shared redis client wrapper to the Store interface. Session
// fields live under the client's namespaced session keys.
type Redis struct {
	client *redisclient.Client
}

// NewRedis wraps an already-connected redis client.
func NewRedis(client *redisclient.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.client.SessionKey(key))
	if err != nil {
		if redisclient.IsNil(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.SessionKey(key), value, 0)
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	namespaced := make([]string, 0, len(keys))
	for _, key := range keys {
		namespaced = append(namespaced, r.client.SessionKey(key))
	}
	return r.client.Del(ctx, namespaced...)
}

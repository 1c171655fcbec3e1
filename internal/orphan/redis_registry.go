package orphan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisRegistry struct {
	client *redis.Client
	prefix string
}

// NewRedisRegistry creates a Redis-backed orphan registry. Entries
// carry no TTL: they exist until an operator resolves them.
func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{
		client: client,
		prefix: "orphan:",
	}
}

func (r *RedisRegistry) key(identityID string) string {
	return r.prefix + identityID
}

func (r *RedisRegistry) Record(ctx context.Context, rec Record) error {
	if rec.IdentityID == "" {
		return fmt.Errorf("orphan: missing identity_id")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("orphan: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key(rec.IdentityID), data, 0).Err()
}

func (r *RedisRegistry) Get(ctx context.Context, identityID string) (*Record, error) {
	val, err := r.client.Get(ctx, r.key(identityID)).Result()
	if err == redis.Nil {
		return nil, nil // not recorded
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("orphan: failed to unmarshal: %w", err)
	}

	return &rec, nil
}

// Package registry talks to the remote invitation-code registry.
// Each record lives under invite:<CODE> as a small JSON object {used: bool},
// pre-seeded out of band for the closed beta.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rinkl-labs/rinkl-ai/internal/domain"
)

const keyPrefix = "invite:"

// RedisRegistry reads and updates invite records in Redis.
type RedisRegistry struct {
	client *redis.Client
}

// NewRedisRegistry connects to the registry. An unreachable registry is
// not fatal: lookups fail closed and the offline bypass code still works,
// so the connection problem is only logged.
func NewRedisRegistry(addr, password string, db int) *RedisRegistry {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("invite registry unreachable", "addr", addr, "error", err)
	}

	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) Close() error {
	return r.client.Close()
}

// Get returns the invite record for a normalized code.
// The second return is false when no record exists.
func (r *RedisRegistry) Get(ctx context.Context, code string) (domain.InviteCode, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+code).Bytes()
	if err == redis.Nil {
		return domain.InviteCode{}, false, nil
	}
	if err != nil {
		return domain.InviteCode{}, false, fmt.Errorf("get invite record: %w", err)
	}

	var rec domain.InviteCode
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.InviteCode{}, false, fmt.Errorf("decode invite record: %w", err)
	}
	rec.Code = code
	return rec, true, nil
}

// MarkUsed flips the record to used. This is a read-then-write update,
// not an atomic check-and-set: two clients redeeming the same code at the
// same instant can both pass. Accepted for the closed-beta trust level.
func (r *RedisRegistry) MarkUsed(ctx context.Context, code string) error {
	data, err := json.Marshal(domain.InviteCode{Used: true})
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, keyPrefix+code, data, 0).Err(); err != nil {
		return fmt.Errorf("mark invite used: %w", err)
	}
	return nil
}

// Seed inserts an unused record for a code. Used by provisioning tooling.
func (r *RedisRegistry) Seed(ctx context.Context, code string) error {
	data, err := json.Marshal(domain.InviteCode{Used: false})
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, keyPrefix+code, data, 0).Err(); err != nil {
		return fmt.Errorf("seed invite: %w", err)
	}
	return nil
}

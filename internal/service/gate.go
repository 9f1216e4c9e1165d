package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rinkl-labs/rinkl-ai/internal/config"
	"github.com/rinkl-labs/rinkl-ai/internal/domain"
	"github.com/rinkl-labs/rinkl-ai/internal/repository"
)

// InviteRegistry is the remote registry holding invite records.
type InviteRegistry interface {
	Get(ctx context.Context, code string) (domain.InviteCode, bool, error)
	MarkUsed(ctx context.Context, code string) error
}

// InviteGate validates invitation codes against the remote registry and
// keeps the per-chat authenticated flag. Any denial arms a short cool-down
// during which further attempts are rejected outright.
type InviteGate struct {
	registry InviteRegistry
	kv       repository.KV
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	deniedAt map[int64]time.Time
}

func NewInviteGate(registry InviteRegistry, kv repository.KV) *InviteGate {
	return &InviteGate{
		registry: registry,
		kv:       kv,
		cooldown: config.CodeCooldown,
		now:      time.Now,
		deniedAt: make(map[int64]time.Time),
	}
}

// NormalizeCode upper-cases the input and strips everything that is not
// alphanumeric. Anything that does not come out at exactly six characters
// is rejected.
func NormalizeCode(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) != domain.CodeLength {
		return "", domain.ErrInvalidCode
	}
	return code, nil
}

func authKey(chatID int64) string {
	return fmt.Sprintf("auth:%d", chatID)
}

// Redeem checks a code and, when it is present and unused, marks it used
// and persists the chat's authenticated flag. Every failure path arms the
// cool-down. The registry update is a read-then-write, not an atomic
// check-and-set; concurrent redemption of one code can double-grant,
// which is accepted for the closed beta.
func (g *InviteGate) Redeem(ctx context.Context, chatID int64, raw string) error {
	g.mu.Lock()
	deniedAt, denied := g.deniedAt[chatID]
	g.mu.Unlock()
	if denied && g.now().Sub(deniedAt) < g.cooldown {
		return domain.ErrCooldown
	}

	code, err := NormalizeCode(raw)
	if err != nil {
		g.deny(chatID)
		return err
	}

	rec, found, err := g.registry.Get(ctx, code)
	if err != nil {
		// Fail closed, except for the hardcoded offline/demo bypass.
		if code == config.BypassCode {
			slog.Warn("registry unreachable, honoring bypass code", "error", err)
			return g.grant(ctx, chatID)
		}
		slog.Error("invite registry lookup", "error", err)
		g.deny(chatID)
		return domain.ErrRegistryUnreachable
	}

	if !found || rec.Used {
		g.deny(chatID)
		return domain.ErrCodeDenied
	}

	if err := g.registry.MarkUsed(ctx, code); err != nil {
		slog.Error("mark invite used", "error", err)
		g.deny(chatID)
		return domain.ErrRegistryUnreachable
	}

	return g.grant(ctx, chatID)
}

func (g *InviteGate) deny(chatID int64) {
	g.mu.Lock()
	g.deniedAt[chatID] = g.now()
	g.mu.Unlock()
}

func (g *InviteGate) grant(ctx context.Context, chatID int64) error {
	g.mu.Lock()
	delete(g.deniedAt, chatID)
	g.mu.Unlock()

	data, _ := json.Marshal(map[string]bool{"authenticated": true})
	if err := g.kv.Set(ctx, authKey(chatID), data); err != nil {
		return fmt.Errorf("persist auth flag: %w", err)
	}
	return nil
}

// Authenticated reports whether the chat has redeemed a code before.
// The flag never expires and is not re-validated against the registry.
func (g *InviteGate) Authenticated(ctx context.Context, chatID int64) bool {
	data, found, err := g.kv.Get(ctx, authKey(chatID))
	if err != nil || !found {
		return false
	}
	var flag map[string]bool
	if err := json.Unmarshal(data, &flag); err != nil {
		return false
	}
	return flag["authenticated"]
}

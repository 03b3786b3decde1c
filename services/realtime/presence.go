package realtime

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"medconnect/utils"

	"github.com/go-redis/redis/v8"
)

// Presence tracks which users have live connections. A user may hold several.
type Presence interface {
	Set(ctx context.Context, userID, connID string) error
	Get(ctx context.Context, userID string) ([]string, error)
	Remove(ctx context.Context, userID, connID string) error
}

// MemoryPresence is a single-process Presence.
type MemoryPresence struct {
	mu    sync.RWMutex
	conns map[string]map[string]struct{}
}

func NewMemoryPresence() *MemoryPresence {
	return &MemoryPresence{conns: make(map[string]map[string]struct{})}
}

func (p *MemoryPresence) Set(_ context.Context, userID, connID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conns[userID] == nil {
		p.conns[userID] = make(map[string]struct{})
	}
	p.conns[userID][connID] = struct{}{}
	return nil
}

func (p *MemoryPresence) Get(_ context.Context, userID string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.conns[userID]))
	for id := range p.conns[userID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (p *MemoryPresence) Remove(_ context.Context, userID, connID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conns[userID], connID)
	if len(p.conns[userID]) == 0 {
		delete(p.conns, userID)
	}
	return nil
}

// RedisPresence shares presence across API instances. Each user is a Redis set of
// connection ids that expires unless refreshed.
type RedisPresence struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPresence(client *redis.Client, ttl time.Duration) *RedisPresence {
	if ttl <= 0 {
		ttl = utils.PresenceTTL
	}
	return &RedisPresence{client: client, ttl: ttl}
}

func presenceKey(userID string) string {
	return utils.PresencePrefix + userID
}

func (p *RedisPresence) Set(ctx context.Context, userID, connID string) error {
	key := presenceKey(userID)
	pipe := p.client.TxPipeline()
	pipe.SAdd(ctx, key, connID)
	pipe.Expire(ctx, key, p.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence set %s: %w", userID, err)
	}
	return nil
}

func (p *RedisPresence) Get(ctx context.Context, userID string) ([]string, error) {
	members, err := p.client.SMembers(ctx, presenceKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("presence get %s: %w", userID, err)
	}
	sort.Strings(members)
	return members, nil
}

func (p *RedisPresence) Remove(ctx context.Context, userID, connID string) error {
	if err := p.client.SRem(ctx, presenceKey(userID), connID).Err(); err != nil {
		return fmt.Errorf("presence remove %s: %w", userID, err)
	}
	return nil
}

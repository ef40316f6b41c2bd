package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeStore reserves room codes so that no two live rooms share one.
type CodeStore interface {
	// Reserve returns false when the code is already taken.
	Reserve(ctx context.Context, code string) (bool, error)
	Release(ctx context.Context, code string) error
}

type memoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]struct{}
}

func NewMemoryCodeStore() CodeStore {
	return &memoryCodeStore{
		codes: make(map[string]struct{}),
	}
}

func (that *memoryCodeStore) Reserve(_ context.Context, code string) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.codes[code]; ok {
		return false, nil
	}

	that.codes[code] = struct{}{}

	return true, nil
}

func (that *memoryCodeStore) Release(_ context.Context, code string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.codes, code)

	return nil
}

// redisCodeStore shares the code space between every instance pointed at the
// same redis.
type redisCodeStore struct {
	client *redis.Client
	owner  string
	ttl    time.Duration
}

func NewRedisCodeStore(client *redis.Client, owner string, ttl time.Duration) CodeStore {
	return &redisCodeStore{
		client: client,
		owner:  owner,
		ttl:    ttl,
	}
}

func codeKey(code string) string {
	return "room:" + code
}

func (that *redisCodeStore) Reserve(ctx context.Context, code string) (bool, error) {
	ok, err := that.client.SetNX(ctx, codeKey(code), that.owner, that.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve code: %w", err)
	}

	return ok, nil
}

func (that *redisCodeStore) Release(ctx context.Context, code string) error {
	if err := that.client.Del(ctx, codeKey(code)).Err(); err != nil {
		return fmt.Errorf("failed to release code: %w", err)
	}

	return nil
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/hustlcampus/hustl/pkg/cache"
)

// Store persists session data by id.
type Store interface {
	Load(ctx context.Context, id string) (map[string]any, error)
	Save(ctx context.Context, id string, data map[string]any, ttl time.Duration) error
	Destroy(ctx context.Context, id string) error
}

// RedisStore keeps sessions in the shared cache client.
type RedisStore struct {
	Prefix string
}

func NewRedisStore() *RedisStore { return &RedisStore{Prefix: "hustl:session:"} }

func (s *RedisStore) Load(ctx context.Context, id string) (map[string]any, error) {
	data := map[string]any{}
	if _, err := cache.Get(ctx, s.Prefix+id, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, data map[string]any, ttl time.Duration) error {
	return cache.Set(ctx, s.Prefix+id, data, ttl)
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return cache.Del(ctx, s.Prefix+id)
}

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// when they are next loaded.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	data    map[string]any
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]memoryItem{}, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return map[string]any{}, nil
	}
	if s.now().After(item.expires) {
		delete(s.items, id)
		return map[string]any{}, nil
	}

	out := make(map[string]any, len(item.data))
	for k, v := range item.data {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, data map[string]any, ttl time.Duration) error {
	cp := make(map[string]any, len(data))
	for k, v := range data {
		cp[k] = v
	}

	s.mu.Lock()
	s.items[id] = memoryItem{data: cp, expires: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

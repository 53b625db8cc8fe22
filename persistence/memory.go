package persistence

import (
	"context"
	"time"

	c "github.com/patrickmn/go-cache"
)

var _ SessionStorage = new(MemorySessionStorage)

// MemorySessionStorage keeps the blob in process memory for the lifetime of the session.
type MemorySessionStorage struct {
	cache *c.Cache
}

func NewMemorySessionStorage(ttl time.Duration) *MemorySessionStorage {
	expiration := c.NoExpiration
	if ttl > 0 {
		expiration = ttl
	}
	return &MemorySessionStorage{
		cache: c.New(expiration, 10*time.Minute),
	}
}

func (m *MemorySessionStorage) Get(ctx context.Context) ([]byte, bool, error) {
	value, found := m.cache.Get(FLOW_STATE_KEY)
	if !found {
		return nil, false, nil
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, false, StorageLayerError{Message: "unexpected value type in session cache"}
	}
	return data, true, nil
}

func (m *MemorySessionStorage) Set(ctx context.Context, data []byte) error {
	m.cache.SetDefault(FLOW_STATE_KEY, data)
	return nil
}

func (m *MemorySessionStorage) Remove(ctx context.Context) error {
	m.cache.Delete(FLOW_STATE_KEY)
	return nil
}

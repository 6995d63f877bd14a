package cache

import (
	"context"
	"sync"
	"time"

	"butik/internal/models"
)

type memoryEntry struct {
	cart      models.Cart
	expiresAt time.Time
}

// MemoryCache is an in-process CartCache used in tests and in deployments
// without Redis. Entries expire after the same base TTL as the Redis
// cache, so a write that lands after an invalidation cannot outlive it.
type MemoryCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	carts map[string]memoryEntry
}

// NewMemoryCache creates a new empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		ttl:   15 * time.Minute,
		carts: make(map[string]memoryEntry),
	}
}

func (m *MemoryCache) Get(ctx context.Context, userID string) (*models.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.carts[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	cart := entry.cart
	if cart.Items != nil {
		cart.Items = append([]models.CartItem(nil), cart.Items...)
	}
	return &cart, nil
}

func (m *MemoryCache) Set(ctx context.Context, userID string, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *cart
	if stored.Items != nil {
		stored.Items = append([]models.CartItem(nil), stored.Items...)
	}
	m.carts[userID] = memoryEntry{cart: stored, expiresAt: time.Now().Add(m.ttl)}
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.carts, userID)
	return nil
}

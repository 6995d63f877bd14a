package repositories

import (
	"context"
	"sync"
	"time"

	"butik/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart // keyed by user ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

func copyCart(c models.Cart) models.Cart {
	if c.Items != nil {
		c.Items = append([]models.CartItem(nil), c.Items...)
	}
	return c
}

// GetByUser returns the cart owned by the given user.
func (r *MockCartRepository) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	c := copyCart(cart)
	return &c, nil
}

// Upsert stores the cart whole, creating it if the user has none yet.
func (r *MockCartRepository) Upsert(ctx context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	r.carts[cart.UserID] = copyCart(*cart)
	return nil
}

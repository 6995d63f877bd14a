package repositories

import (
	"context"

	"butik/internal/models"
)

// CartRepository defines the interface for cart data access. A cart is
// stored whole; Upsert replaces the full item collection for the user.
type CartRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	Upsert(ctx context.Context, cart *models.Cart) error
}

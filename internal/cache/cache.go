package cache

import (
	"context"
	"errors"

	"butik/internal/models"
)

// CartCache caches whole cart documents keyed by user ID.
type CartCache interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Set(ctx context.Context, userID string, cart *models.Cart) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")

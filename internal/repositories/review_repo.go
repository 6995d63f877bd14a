package repositories

import (
	"context"

	"butik/internal/models"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ListByProduct(ctx context.Context, productID string, page, limit int64) ([]models.Review, int64, error)
	Delete(ctx context.Context, id string) error
}

package repositories

import (
	"context"

	"butik/internal/models"
)

// ProductFilter narrows and pages List results.
type ProductFilter struct {
	Name     string   // space-separated keywords, matched case-insensitively
	Category []string // category path, all levels must match
	Page     int64
	Limit    int64
	Sort     string // "highPrice", "lowPrice" or "latest"
}

// ProductRepository defines the interface for product data access.
// Update and UpdateStockBulk replace the full stock mapping for each
// product (last-writer-wins, no optimistic versioning).
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	UpdateStockBulk(ctx context.Context, products []*models.Product) error
	Delete(ctx context.Context, id string) error
}

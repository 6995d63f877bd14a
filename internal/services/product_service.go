package services

import (
	"context"
	"math"

	"butik/internal/models"
	"butik/internal/repositories"
)

// ProductListResult is one page of the catalog.
type ProductListResult struct {
	Products   []models.Product `json:"products"`
	Page       int64            `json:"page"`
	Total      int64            `json:"total"`
	TotalPages int64            `json:"total_pages"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts retrieves one page of products matching the filter.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) (*ProductListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products:   products,
		Page:       filter.Page,
		Total:      total,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product. Pricing fields derived from the
// sale price are filled in before saving.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	applyPricing(product)
	if product.Status == "" {
		product.Status = "active"
	}
	if product.Stock == nil {
		product.Stock = map[string]int{}
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates an existing product, recomputing the sale rate.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	applyPricing(product)
	return s.repo.Update(ctx, product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// applyPricing fills RealPrice and SaleRate from Price and SalePrice.
// SaleRate is a percentage with one decimal place.
func applyPricing(product *models.Product) {
	if product.SalePrice > 0 && product.Price > 0 {
		product.RealPrice = product.SalePrice
		rate := (product.Price - product.SalePrice) / product.Price * 100
		product.SaleRate = math.Round(rate*10) / 10
	} else {
		product.RealPrice = product.Price
		product.SaleRate = 0
	}
}

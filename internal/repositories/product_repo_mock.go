package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"butik/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

func copyProduct(p models.Product) models.Product {
	if p.Stock != nil {
		stock := make(map[string]int, len(p.Stock))
		for size, qty := range p.Stock {
			stock[size] = qty
		}
		p.Stock = stock
	}
	if p.Category != nil {
		p.Category = append([]string(nil), p.Category...)
	}
	return p
}

func matchesFilter(p models.Product, filter ProductFilter) bool {
	if p.IsDeleted {
		return false
	}
	if filter.Name != "" {
		matched := false
		for _, keyword := range strings.Fields(filter.Name) {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(keyword)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, want := range filter.Category {
		found := false
		for _, have := range p.Category {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// List returns a page of products matching the filter and the total count.
func (r *MockProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Product
	for _, p := range r.products {
		if matchesFilter(p, filter) {
			matched = append(matched, copyProduct(p))
		}
	}

	switch filter.Sort {
	case "highPrice":
		sort.Slice(matched, func(i, j int) bool { return matched[i].RealPrice > matched[j].RealPrice })
	case "lowPrice":
		sort.Slice(matched, func(i, j int) bool { return matched[i].RealPrice < matched[j].RealPrice })
	case "latest":
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	}

	total := int64(len(matched))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	start := (page - 1) * limit
	if start >= total {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := copyProduct(product)
	return &p, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = copyProduct(*product)
	return nil
}

// Update replaces an existing product.
func (r *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return ErrProductNotFound
	}
	r.products[product.ID] = copyProduct(*product)
	return nil
}

// UpdateStockBulk replaces the stock mapping of every given product. All
// products are checked for existence before any stock is written, so the
// commit is atomic under the repository lock.
func (r *MockProductRepository) UpdateStockBulk(ctx context.Context, products []*models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, product := range products {
		if _, ok := r.products[product.ID]; !ok {
			return ErrProductNotFound
		}
	}
	for _, product := range products {
		stored := r.products[product.ID]
		stored.Stock = copyProduct(*product).Stock
		r.products[product.ID] = stored
	}
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"butik/internal/models"

	"github.com/google/uuid"
)

// MockReviewRepository is an in-memory implementation of ReviewRepository.
type MockReviewRepository struct {
	reviews map[string]models.Review
	mu      sync.RWMutex
}

// NewMockReviewRepository creates a new instance of MockReviewRepository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[string]models.Review),
	}
}

// Create adds a new review.
func (r *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	r.reviews[review.ID] = *review
	return nil
}

// GetByID returns a review by its ID.
func (r *MockReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, ok := r.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	return &review, nil
}

// ListByProduct returns a page of reviews for one product, newest first.
func (r *MockReviewRepository) ListByProduct(ctx context.Context, productID string, page, limit int64) ([]models.Review, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Review
	for _, review := range r.reviews {
		if review.ProductID == productID {
			matched = append(matched, review)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= total {
		return []models.Review{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// Delete removes a review by its ID.
func (r *MockReviewRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[id]; !ok {
		return ErrReviewNotFound
	}
	delete(r.reviews, id)
	return nil
}

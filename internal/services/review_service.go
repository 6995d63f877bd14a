package services

import (
	"context"
	"errors"
	"fmt"

	"butik/internal/models"
	"butik/internal/repositories"
)

// ErrReviewForbidden is returned when a user tries to delete a review
// they do not own.
var ErrReviewForbidden = errors.New("review belongs to another user")

// ReviewListResult is one page of reviews for a product.
type ReviewListResult struct {
	Reviews    []models.Review `json:"reviews"`
	Page       int64           `json:"page"`
	Total      int64           `json:"total"`
	TotalPages int64           `json:"total_pages"`
}

// ReviewService handles business logic related to product reviews.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// CreateReview creates a review for an existing product.
func (s *ReviewService) CreateReview(ctx context.Context, review *models.Review) error {
	if _, err := s.productRepo.GetByID(ctx, review.ProductID); err != nil {
		return fmt.Errorf("failed to load reviewed product: %w", err)
	}
	return s.reviewRepo.Create(ctx, review)
}

// ListReviewsByProduct retrieves one page of reviews for a product.
func (s *ReviewService) ListReviewsByProduct(ctx context.Context, productID string, page, limit int64) (*ReviewListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	reviews, total, err := s.reviewRepo.ListByProduct(ctx, productID, page, limit)
	if err != nil {
		return nil, err
	}

	return &ReviewListResult{
		Reviews:    reviews,
		Page:       page,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// DeleteReview deletes a review, but only for the user who wrote it.
func (s *ReviewService) DeleteReview(ctx context.Context, id, userID string) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return ErrReviewForbidden
	}
	return s.reviewRepo.Delete(ctx, id)
}

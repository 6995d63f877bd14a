package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"butik/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReviewRepository is a MongoDB implementation of ReviewRepository.
type MongoReviewRepository struct {
	collection *mongo.Collection
}

// NewMongoReviewRepository creates a new instance of MongoReviewRepository.
func NewMongoReviewRepository(db *mongo.Database) *MongoReviewRepository {
	return &MongoReviewRepository{
		collection: db.Collection("reviews"),
	}
}

// Create inserts a new review.
func (r *MongoReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves a single review by its ID.
func (r *MongoReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, err)
	}
	return &review, nil
}

// ListByProduct retrieves a page of reviews for one product, newest first,
// together with the total number of reviews for that product.
func (r *MongoReviewRepository) ListByProduct(ctx context.Context, productID string, page, limit int64) ([]models.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	cond := bson.M{"product_id": productID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, cond, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reviews: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, cond)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	return reviews, total, nil
}

// Delete removes a review by its ID.
func (r *MongoReviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrReviewNotFound
	}
	return nil
}

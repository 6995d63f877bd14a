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

// MongoCartRepository is a MongoDB implementation of CartRepository.
type MongoCartRepository struct {
	collection *mongo.Collection
}

// NewMongoCartRepository creates a new instance of MongoCartRepository.
func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{
		collection: db.Collection("carts"),
	}
}

// GetByUser retrieves the cart owned by the given user.
func (r *MongoCartRepository) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// Upsert stores the cart whole, creating it if the user has none yet.
func (r *MongoCartRepository) Upsert(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"user_id": cart.UserID}
	update := bson.M{
		"$set": bson.M{
			"user_id":    cart.UserID,
			"items":      cart.Items,
			"created_at": cart.CreatedAt,
			"updated_at": cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{"_id": cart.ID},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

// CreateIndexes sets up the unique user_id index that enforces one cart
// per user at the storage level.
func (r *MongoCartRepository) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}

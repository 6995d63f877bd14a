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

// MongoOrderRepository is a MongoDB implementation of OrderRepository.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

// ListByUser retrieves all orders placed by one user, newest first.
func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create inserts a new order.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus updates the status of an existing order.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"butik/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		collection: db.Collection("products"),
	}
}

// List retrieves a page of products matching the filter, together with the
// total number of matches (before paging).
func (r *MongoProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	cond := bson.M{"is_deleted": false}

	if filter.Name != "" {
		var or []bson.M
		for _, keyword := range strings.Fields(filter.Name) {
			or = append(or, bson.M{"name": primitive.Regex{Pattern: keyword, Options: "i"}})
		}
		if len(or) > 0 {
			cond["$or"] = or
		}
	}

	if len(filter.Category) > 0 {
		cond["category"] = bson.M{"$all": filter.Category}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	switch filter.Sort {
	case "highPrice":
		opts.SetSort(bson.D{{Key: "real_price", Value: -1}})
	case "lowPrice":
		opts.SetSort(bson.D{{Key: "real_price", Value: 1}})
	case "latest":
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, cond, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, cond)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, total, nil
}

// GetByID retrieves a single product by its ID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the stored product document with the given one.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// UpdateStockBulk persists the full stock mapping of every given product
// inside a single session transaction, so a crash mid-commit cannot leave
// some products decremented and others not.
func (r *MongoProductRepository) UpdateStockBulk(ctx context.Context, products []*models.Product) error {
	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		for _, product := range products {
			res, err := r.collection.UpdateOne(sc,
				bson.M{"_id": product.ID},
				bson.M{"$set": bson.M{"stock": product.Stock, "updated_at": now}},
			)
			if err != nil {
				return nil, fmt.Errorf("failed to update stock for product %s: %w", product.ID, err)
			}
			if res.MatchedCount == 0 {
				return nil, ErrProductNotFound
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit stock updates: %w", err)
	}
	return nil
}

// Delete removes a product by its ID.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

package models

import "time"

// Review is a customer review of a product.
type Review struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required"`
	ProductID string    `json:"product_id" bson:"product_id" validate:"required"`
	Content   string    `json:"content" bson:"content" validate:"required,max=2000"`
	Score     int       `json:"score" bson:"score" validate:"required,min=1,max=5"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

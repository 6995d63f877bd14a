package models

import "time"

// OrderLine represents a single line within an order: one product in one
// size. Price is the effective unit price at the time of order.
type OrderLine struct {
	ProductID string  `json:"product_id" bson:"product_id" validate:"required"`
	Size      string  `json:"size" bson:"size" validate:"required"`
	Qty       int     `json:"qty" bson:"qty" validate:"required,gt=0"`
	Price     float64 `json:"price" bson:"price"`
}

// Order represents a customer order.
type Order struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	UserID      string      `json:"user_id" bson:"user_id"`
	Lines       []OrderLine `json:"lines" bson:"lines"`
	TotalAmount float64     `json:"total_amount" bson:"total_amount"`
	Status      string      `json:"status" bson:"status"` // e.g., "pending", "processing", "shipped", "delivered", "cancelled"
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}

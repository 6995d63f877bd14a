package models

import "time"

// CartItemKey derives the composite key that makes a cart item unique
// within one cart: one entry per product per size.
func CartItemKey(productID, size string) string {
	return productID + "_" + size
}

// CartItem is a single entry in a cart. CartItemID is derived from the
// product and size; no two items in one cart may share it. ID is the
// storage identity used for item updates and removals.
type CartItem struct {
	ID         string `json:"_id" bson:"_id"`
	CartItemID string `json:"cart_item_id" bson:"cart_item_id"`
	ProductID  string `json:"product_id" bson:"product_id" validate:"required"`
	Size       string `json:"size" bson:"size" validate:"required"`
	Qty        int    `json:"qty" bson:"qty" validate:"required,gt=0"`
}

// Cart holds all items for one user. There is one cart per user, created
// lazily on the first add.
type Cart struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	UserID    string     `json:"user_id" bson:"user_id"`
	Items     []CartItem `json:"items" bson:"items"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

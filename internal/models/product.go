package models

import "time"

// Product represents a product in the store. Stock is kept as a mapping
// from size label to the quantity on hand for that size.
type Product struct {
	ID          string         `json:"id" bson:"_id,omitempty" validate:"omitempty,uuid"`
	SKU         string         `json:"sku" bson:"sku" validate:"required"`
	Name        string         `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Image       string         `json:"image" bson:"image" validate:"omitempty,url"`
	Category    []string       `json:"category" bson:"category"`
	Description string         `json:"description" bson:"description" validate:"omitempty,max=500"`
	Price       float64        `json:"price" bson:"price" validate:"required,gt=0"`
	SalePrice   float64        `json:"sale_price" bson:"sale_price" validate:"omitempty,gte=0"`
	RealPrice   float64        `json:"real_price" bson:"real_price"`
	SaleRate    float64        `json:"sale_rate" bson:"sale_rate"`
	Stock       map[string]int `json:"stock" bson:"stock"`
	Brand       string         `json:"brand" bson:"brand"`
	Status      string         `json:"status" bson:"status"`
	IsDeleted   bool           `json:"is_deleted" bson:"is_deleted"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
}

// EffectivePrice returns the price a customer actually pays: the
// discounted price when a sale is active, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.RealPrice > 0 {
		return p.RealPrice
	}
	return p.Price
}

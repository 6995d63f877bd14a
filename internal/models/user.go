package models

import "time"

// User represents a user of the store.
type User struct {
	ID        string    `json:"id" bson:"_id,omitempty" validate:"omitempty,uuid"`
	Username  string    `json:"username" bson:"username" validate:"required,min=3,max=100"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Password  string    `bson:"password" validate:"required,min=6"` // No json tag for security
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

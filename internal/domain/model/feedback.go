package model

import "time"

// Feedback is a rated customer comment.
type Feedback struct {
	ID        string    `json:"id" bson:"_id"`
	OrderID   string    `json:"orderId,omitempty" bson:"order_id,omitempty" validate:"omitempty,max=64"`
	Name      string    `json:"name" bson:"name" validate:"max=120"`
	Email     string    `json:"email" bson:"email" validate:"omitempty,email"`
	Rating    int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" bson:"comment" validate:"max=2000"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. The set is closed: status updates outside it are
// rejected before anything is written.
const (
	StatusNotProcessed = "Not Processed"
	StatusProcessing   = "Processing"
	StatusShipped      = "Shipped"
	StatusDelivered    = "Delivered"
	StatusCancelled    = "Cancelled"
)

// OrderStatuses lists every valid status, in lifecycle order.
var OrderStatuses = []string{
	StatusNotProcessed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ValidStatus reports whether s is one of the five order statuses.
func ValidStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// OrderItem is one cart line item, snapshotted at checkout time. It is
// stored as submitted and never re-resolved, so deleting a product later
// leaves existing orders untouched.
type OrderItem struct {
	ProductID   primitive.ObjectID `bson:"product_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
}

// Order is a completed checkout. Payment holds the raw gateway result as an
// opaque document.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Products  []OrderItem        `bson:"products" json:"products"`
	Payment   bson.M             `bson:"payment" json:"payment"`
	Buyer     primitive.ObjectID `bson:"buyer" json:"buyer"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPhotoBytes is the ceiling for a product photo upload.
const MaxPhotoBytes = 1 << 20 // 1 MB

// Photo holds a product image. Data is stored in-document when the photo
// disk is "mongo"; otherwise the bytes live on a storage disk and Path
// points at them. ContentType is returned verbatim on photo requests.
type Photo struct {
	Data        []byte `bson:"data,omitempty" json:"-"`
	ContentType string `bson:"content_type,omitempty" json:"contentType,omitempty"`
	Path        string `bson:"path,omitempty" json:"-"`
}

// Product is a catalog item.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    primitive.ObjectID `bson:"category" json:"category"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Shipping    bool               `bson:"shipping" json:"shipping"`
	Photo       Photo              `bson:"photo,omitempty" json:"-"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

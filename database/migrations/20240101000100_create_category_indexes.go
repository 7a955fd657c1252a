package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rishavanand/bazario/pkg/migration"
)

func init() {
	migration.Register("20240101000100_create_category_indexes", &createCategoryIndexes{})
}

// createCategoryIndexes adds the unique slug index that makes category
// creation idempotent.
type createCategoryIndexes struct{}

func (m *createCategoryIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("categories").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("categories_slug_unique"),
	})
	return err
}

func (m *createCategoryIndexes) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("categories").Indexes().DropOne(ctx, "categories_slug_unique")
	return err
}

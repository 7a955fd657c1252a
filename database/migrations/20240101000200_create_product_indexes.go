package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rishavanand/bazario/pkg/migration"
)

func init() {
	migration.Register("20240101000200_create_product_indexes", &createProductIndexes{})
}

type createProductIndexes struct{}

func (m *createProductIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("products").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("products_slug_unique"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("products_category"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("products_created_at_desc"),
		},
	})
	return err
}

func (m *createProductIndexes) Down(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{"products_slug_unique", "products_category", "products_created_at_desc"} {
		if _, err := db.Collection("products").Indexes().DropOne(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

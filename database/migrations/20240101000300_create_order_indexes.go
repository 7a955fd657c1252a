package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rishavanand/bazario/pkg/migration"
)

func init() {
	migration.Register("20240101000300_create_order_indexes", &createOrderIndexes{})
}

type createOrderIndexes struct{}

func (m *createOrderIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "buyer", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("orders_buyer_created_at"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("orders_created_at_desc"),
		},
	})
	return err
}

func (m *createOrderIndexes) Down(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{"orders_buyer_created_at", "orders_created_at_desc"} {
		if _, err := db.Collection("orders").Indexes().DropOne(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

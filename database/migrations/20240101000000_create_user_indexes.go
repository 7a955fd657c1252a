// Package migrations holds the registry-based index migrations. Blank-import
// this package so every init() runs before the runner is invoked.
package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rishavanand/bazario/pkg/migration"
)

func init() {
	migration.Register("20240101000000_create_user_indexes", &createUserIndexes{})
}

// createUserIndexes adds the unique email index that backs the duplicate
// registration conflict.
type createUserIndexes struct{}

func (m *createUserIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	return err
}

func (m *createUserIndexes) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().DropOne(ctx, "users_email_unique")
	return err
}

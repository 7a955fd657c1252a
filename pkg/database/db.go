// Package database owns the MongoDB connection shared by the whole
// application. Connect once at boot, then grab collection handles:
//
//	users := database.Collection("users")
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rishavanand/bazario/config"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Connect opens the MongoDB connection and verifies it with a ping.
// Returns an error instead of calling log.Fatal so the caller can
// shut down gracefully.
func Connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(2 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDatabase())
	return nil
}

// Collection returns a handle on the named collection.
// Panics if Connect has not been called; that is a boot-order bug.
func Collection(name string) *mongo.Collection {
	if DB == nil {
		panic("database: Collection called before Connect")
	}
	return DB.Collection(name)
}

// Ping verifies the connection is still live. Used by /health.
func Ping(ctx context.Context) error {
	if Client == nil {
		return fmt.Errorf("database: not connected")
	}
	return Client.Ping(ctx, nil)
}

// Disconnect closes the client. Safe to call when never connected.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

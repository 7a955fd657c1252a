// Package migration provides a registry-based migration runner for MongoDB.
// Migrations here create indexes and backfill documents rather than tables.
//
// Usage (in database/migrations/):
//
//	func init() {
//	    migration.Register("20240101000000_create_users_indexes", &CreateUsersIndexes{})
//	}
//
//	type CreateUsersIndexes struct{}
//	func (m *CreateUsersIndexes) Up(ctx context.Context, db *mongo.Database) error { ... }
//	func (m *CreateUsersIndexes) Down(ctx context.Context, db *mongo.Database) error { ... }
//
// Run from CLI:
//
//	bazario migrate             // run all pending
//	bazario migrate:rollback    // rollback last batch
package migration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rishavanand/bazario/pkg/logger"
)

const trackingCollection = "migrations"

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(ctx context.Context, db *mongo.Database) error
	// Down reverses the migration.
	Down(ctx context.Context, db *mongo.Database) error
}

// migrationRecord is the document stored in the tracking collection.
type migrationRecord struct {
	Name  string    `bson:"name"`
	Batch int       `bson:"batch"`
	RunAt time.Time `bson:"run_at"`
}

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry.
// name should be a timestamp-prefixed string, e.g.
// "20240101000000_create_users_indexes". Migrations run in name order.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db *mongo.Database
}

// New creates a Runner backed by the provided database handle.
func New(db *mongo.Database) *Runner {
	return &Runner{db: db}
}

func (r *Runner) tracking() *mongo.Collection {
	return r.db.Collection(trackingCollection)
}

// ranSet returns the names of migrations already applied.
func (r *Runner) ranSet(ctx context.Context) (map[string]bool, error) {
	cur, err := r.tracking().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	set := map[string]bool{}
	for cur.Next(ctx) {
		var rec migrationRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		set[rec.Name] = true
	}
	return set, cur.Err()
}

// Pending returns the migrations that have not yet been run, in name order.
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	ran, err := r.ranSet(ctx)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, reg := range registry {
		if !ran[reg.name] {
			pending = append(pending, reg.name)
		}
	}
	sort.Strings(pending)
	return pending, nil
}

// Run executes all pending migrations in a single batch.
func (r *Runner) Run(ctx context.Context) error {
	ran, err := r.ranSet(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch applied: %w", err)
	}

	var pending []registeredMigration
	for _, reg := range registry {
		if !ran[reg.name] {
			pending = append(pending, reg)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].name < pending[j].name })

	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		fmt.Println("Nothing to migrate.")
		return nil
	}

	batch, err := r.nextBatch(ctx)
	if err != nil {
		return err
	}

	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)
		fmt.Printf("  Migrating: %s\n", reg.name)

		if err := reg.m.Up(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		rec := migrationRecord{Name: reg.name, Batch: batch, RunAt: time.Now()}
		if _, err := r.tracking().InsertOne(ctx, rec); err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Printf("  Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses all migrations from the most recent batch.
func (r *Runner) Rollback(ctx context.Context) error {
	batch, err := r.lastBatch(ctx)
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Println("Nothing to roll back.")
		return nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: -1}})
	cur, err := r.tracking().Find(ctx, bson.M{"batch": batch}, opts)
	if err != nil {
		return err
	}
	var records []migrationRecord
	if err := cur.All(ctx, &records); err != nil {
		return err
	}

	regMap := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		regMap[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot rollback %s, not registered", rec.Name)
		}

		fmt.Printf("  Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		if err := m.Down(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}

		if _, err := r.tracking().DeleteOne(ctx, bson.M{"name": rec.Name}); err != nil {
			return err
		}

		fmt.Printf("  Rolled back:  %s\n", rec.Name)
	}

	return nil
}

// Status prints each registered migration and whether it has run.
func (r *Runner) Status(ctx context.Context) error {
	ran, err := r.ranSet(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(registry))
	for _, reg := range registry {
		names = append(names, reg.name)
	}
	sort.Strings(names)

	for _, name := range names {
		state := "pending"
		if ran[name] {
			state = "ran"
		}
		fmt.Printf("  [%s] %s\n", state, name)
	}
	return nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "batch", Value: -1}})
	var rec migrationRecord
	err := r.tracking().FindOne(ctx, bson.M{}, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rec.Batch, nil
}

func (r *Runner) nextBatch(ctx context.Context) (int, error) {
	last, err := r.lastBatch(ctx)
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

// Package seeders populates a fresh database with the records needed to use
// the API: an admin account and a starter category set. Seeders are
// idempotent — rerunning `bazario seed` never duplicates data.
package seeders

import (
	"context"
	"fmt"
	"sort"
)

// Seeder is a named seed function.
type Seeder struct {
	Name string
	Run  func(ctx context.Context) error
}

var registry []Seeder

// Register adds a seeder. Called from init() in the seeder files.
func Register(name string, run func(ctx context.Context) error) {
	registry = append(registry, Seeder{Name: name, Run: run})
}

// RunAll executes every registered seeder in name order.
func RunAll(ctx context.Context) error {
	sorted := make([]Seeder, len(registry))
	copy(sorted, registry)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, s := range sorted {
		fmt.Printf("  Seeding: %s\n", s.Name)
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("seeder %s: %w", s.Name, err)
		}
		fmt.Printf("  Seeded:  %s\n", s.Name)
	}
	return nil
}

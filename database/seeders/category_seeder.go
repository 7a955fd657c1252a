package seeders

import (
	"context"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/pkg/apperr"
)

func init() {
	Register("02_starter_categories", seedCategories)
}

var starterCategories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Home & Garden",
}

func seedCategories(ctx context.Context) error {
	categories := repositories.NewCategoryRepository()

	for _, name := range starterCategories {
		cat := &models.Category{Name: name, Slug: models.Slugify(name)}
		if err := categories.Create(ctx, cat); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				continue // already present
			}
			return err
		}
	}
	return nil
}

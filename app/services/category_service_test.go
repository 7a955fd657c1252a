package services_test

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/apperr"
)

type fakeCategoryStore struct {
	cats []*models.Category
}

func (s *fakeCategoryStore) Create(ctx context.Context, cat *models.Category) error {
	for _, c := range s.cats {
		if c.Slug == cat.Slug {
			return apperr.Conflict("Category already exists")
		}
	}
	cat.ID = primitive.NewObjectID()
	s.cats = append(s.cats, cat)
	return nil
}

func (s *fakeCategoryStore) All(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.cats))
	for _, c := range s.cats {
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeCategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for _, c := range s.cats {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, apperr.NotFound("Category not found")
}

func (s *fakeCategoryStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	for _, c := range s.cats {
		if c.ID.Hex() == id {
			return c, nil
		}
	}
	return nil, apperr.NotFound("Category not found")
}

func (s *fakeCategoryStore) SlugTaken(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	for _, c := range s.cats {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeCategoryStore) Update(ctx context.Context, cat *models.Category) error {
	for i, c := range s.cats {
		if c.ID == cat.ID {
			s.cats[i] = cat
			return nil
		}
	}
	return apperr.NotFound("Category not found")
}

func (s *fakeCategoryStore) Delete(ctx context.Context, id string) error {
	for i, c := range s.cats {
		if c.ID.Hex() == id {
			s.cats = append(s.cats[:i], s.cats[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Category not found")
}

func TestCategoryCreateDerivesSlug(t *testing.T) {
	svc := services.NewCategoryServiceWith(&fakeCategoryStore{})

	cat, err := svc.Create(context.Background(), services.CategoryInput{Name: "Home & Garden"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Slug != "home-garden" {
		t.Errorf("slug = %q, want home-garden", cat.Slug)
	}
}

func TestCategoryCreateDuplicateSlugConflicts(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := services.NewCategoryServiceWith(store)

	if _, err := svc.Create(context.Background(), services.CategoryInput{Name: "Books"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	// Different spelling, same slug.
	_, err := svc.Create(context.Background(), services.CategoryInput{Name: "  Books  "})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(store.cats) != 1 {
		t.Errorf("replayed create must not add a document, have %d", len(store.cats))
	}
}

func TestCategoryUpdateRename(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := services.NewCategoryServiceWith(store)

	cat, err := svc.Create(context.Background(), services.CategoryInput{Name: "Electronics"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), cat.ID.Hex(), services.CategoryInput{Name: "Consumer Electronics"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Slug != "consumer-electronics" {
		t.Errorf("slug = %q, want consumer-electronics", updated.Slug)
	}
}

func TestCategoryUpdateToTakenSlugConflicts(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := services.NewCategoryServiceWith(store)

	if _, err := svc.Create(context.Background(), services.CategoryInput{Name: "Books"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	cat, err := svc.Create(context.Background(), services.CategoryInput{Name: "Music"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Update(context.Background(), cat.ID.Hex(), services.CategoryInput{Name: "Books"})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCategoryUpdateKeepingOwnSlug(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := services.NewCategoryServiceWith(store)

	cat, err := svc.Create(context.Background(), services.CategoryInput{Name: "Books"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Renaming to a name that produces the category's own slug is fine.
	if _, err := svc.Update(context.Background(), cat.ID.Hex(), services.CategoryInput{Name: "BOOKS"}); err != nil {
		t.Fatalf("update to own slug failed: %v", err)
	}
}

func TestCategoryDelete(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := services.NewCategoryServiceWith(store)

	cat, err := svc.Create(context.Background(), services.CategoryInput{Name: "Books"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(context.Background(), cat.ID.Hex()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	cats, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(cats) != 0 {
		t.Errorf("expected empty listing after delete, got %d", len(cats))
	}
}

package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/cache"
)

// categoryCacheKey holds the cached category listing; 60 seconds is plenty
// for a list that changes a few times a day.
const (
	categoryCacheKey = "bazario:cache:categories"
	categoryCacheTTL = 60 * time.Second
)

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required"`
}

// categoryStore is the slice of the category repository this service needs.
type categoryStore interface {
	Create(ctx context.Context, cat *models.Category) error
	All(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	SlugTaken(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, cat *models.Category) error
	Delete(ctx context.Context, id string) error
}

// CategoryService implements category CRUD with a Redis-backed list cache.
type CategoryService struct {
	categories categoryStore
}

// NewCategoryService wires the service to the default repository.
func NewCategoryService() *CategoryService {
	return &CategoryService{categories: repositories.NewCategoryRepository()}
}

// NewCategoryServiceWith injects an explicit store (tests).
func NewCategoryServiceWith(categories categoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create derives the slug from the name and inserts the category. The
// unique slug index turns a replayed create into a conflict, so the
// operation is idempotent at the slug level.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	cat := &models.Category{
		Name: in.Name,
		Slug: models.Slugify(in.Name),
	}
	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	cache.Forget(ctx, categoryCacheKey)
	return cat, nil
}

// Update renames a category, re-deriving its slug.
func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug := models.Slugify(in.Name)
	taken, err := s.categories.SlugTaken(ctx, slug, cat.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Category already exists")
	}

	cat.Name = in.Name
	cat.Slug = slug
	if err := s.categories.Update(ctx, cat); err != nil {
		return nil, err
	}
	cache.Forget(ctx, categoryCacheKey)
	return cat, nil
}

// List returns every category, served from the Redis cache when warm.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if cache.Get(ctx, categoryCacheKey, &cats) {
		return cats, nil
	}

	cats, err := s.categories.All(ctx)
	if err != nil {
		return nil, err
	}
	cache.Set(ctx, categoryCacheKey, cats, categoryCacheTTL) //nolint:errcheck
	return cats, nil
}

// BySlug returns a single category.
func (s *CategoryService) BySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categories.FindBySlug(ctx, slug)
}

// Delete removes a category and invalidates the list cache.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	cache.Forget(ctx, categoryCacheKey)
	return nil
}

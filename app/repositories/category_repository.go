package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/database"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	col *mongo.Collection
}

// NewCategoryRepository returns a repository bound to the categories collection.
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{col: database.Collection("categories")}
}

// NewCategoryRepositoryWith binds the repository to an explicit collection.
func NewCategoryRepositoryWith(col *mongo.Collection) *CategoryRepository {
	return &CategoryRepository{col: col}
}

// Create persists a new category. A duplicate slug surfaces as a conflict,
// which makes creation idempotent at the slug level.
func (r *CategoryRepository) Create(ctx context.Context, cat *models.Category) error {
	res, err := r.col.InsertOne(ctx, cat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("Category already exists")
		}
		return apperr.Wrap(apperr.KindUnexpected, "create category", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		cat.ID = id
	}
	return nil
}

// All returns every category, sorted by name.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "list categories", err)
	}

	var cats []models.Category
	if err := cur.All(ctx, &cats); err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "decode categories", err)
	}
	return cats, nil
}

// FindBySlug looks up a category by its slug.
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var cat models.Category
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&cat)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("category not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "find category", err)
	}
	return &cat, nil
}

// FindByID looks up a category by the hex form of its object id.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid category id")
	}

	var cat models.Category
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&cat)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("category not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "find category", err)
	}
	return &cat, nil
}

// SlugTaken reports whether any category other than excludeID already uses slug.
func (r *CategoryRepository) SlugTaken(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug, "_id": bson.M{"$ne": excludeID}}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, apperr.Wrap(apperr.KindUnexpected, "check slug", err)
	}
	return n > 0, nil
}

// Update replaces the category document.
func (r *CategoryRepository) Update(ctx context.Context, cat *models.Category) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": cat.ID}, cat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("Category already exists")
		}
		return apperr.Wrap(apperr.KindUnexpected, "update category", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}

// Delete removes a category by hex id.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.BadRequest("invalid category id")
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "delete category", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}

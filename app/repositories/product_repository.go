package repositories

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/database"
)

// PerPage is the page size for the paginated product listing.
const PerPage = 6

// withoutPhotoData excludes the raw photo bytes from list projections.
var withoutPhotoData = bson.M{"photo.data": 0}

// PriceRange is a [low, high] price filter bound.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	col *mongo.Collection
}

// NewProductRepository returns a repository bound to the products collection.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{col: database.Collection("products")}
}

// NewProductRepositoryWith binds the repository to an explicit collection.
func NewProductRepositoryWith(col *mongo.Collection) *ProductRepository {
	return &ProductRepository{col: col}
}

// Create persists a new product. A duplicate slug surfaces as a conflict.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("Product already exists")
		}
		return apperr.Wrap(apperr.KindUnexpected, "create product", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

// Update replaces the product document (full-field replace).
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("Product already exists")
		}
		return apperr.Wrap(apperr.KindUnexpected, "update product", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

// Delete removes a product by hex id. Existing order snapshots keep their
// copy of the line items, so they are unaffected.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.BadRequest("invalid product id")
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Wrap(apperr.KindUnexpected, "delete product", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

// All returns every product, newest first, without photo bytes.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().
		SetProjection(withoutPhotoData).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

// Page returns one 6-item page, newest first (1-indexed).
func (r *ProductRepository) Page(ctx context.Context, page int) ([]models.Product, error) {
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetProjection(withoutPhotoData).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * PerPage)).
		SetLimit(PerPage)
	return r.find(ctx, bson.M{}, opts)
}

// Count returns the total number of products.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Wrap(apperr.KindUnexpected, "count products", err)
	}
	return n, nil
}

// FindBySlug returns one product by slug, without photo bytes.
func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"slug": slug},
		options.FindOne().SetProjection(withoutPhotoData),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "find product", err)
	}
	return &p, nil
}

// FindByID returns one product by hex id, including photo bytes.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid product id")
	}

	var p models.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "find product", err)
	}
	return &p, nil
}

// Filter returns products matching any of the category ids and, when the
// range is non-zero, a price between low and high.
func (r *ProductRepository) Filter(ctx context.Context, categoryIDs []string, price *PriceRange) ([]models.Product, error) {
	filter := bson.M{}

	if len(categoryIDs) > 0 {
		oids := make([]primitive.ObjectID, 0, len(categoryIDs))
		for _, id := range categoryIDs {
			oid, err := primitive.ObjectIDFromHex(id)
			if err != nil {
				return nil, apperr.BadRequest("invalid category id in filter")
			}
			oids = append(oids, oid)
		}
		filter["category"] = bson.M{"$in": oids}
	}
	if price != nil {
		filter["price"] = bson.M{"$gte": price.Low, "$lte": price.High}
	}

	opts := options.Find().
		SetProjection(withoutPhotoData).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, filter, opts)
}

// Search matches keyword case-insensitively against name and description.
func (r *ProductRepository) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	quoted := regexp.QuoteMeta(keyword)
	filter := bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": quoted, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": quoted, "$options": "i"}},
	}}
	return r.find(ctx, filter, options.Find().SetProjection(withoutPhotoData))
}

// Related returns up to 3 other products from the same category.
func (r *ProductRepository) Related(ctx context.Context, productID, categoryID string) ([]models.Product, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.BadRequest("invalid product id")
	}
	cid, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, apperr.BadRequest("invalid category id")
	}

	filter := bson.M{"category": cid, "_id": bson.M{"$ne": pid}}
	opts := options.Find().SetProjection(withoutPhotoData).SetLimit(3)
	return r.find(ctx, filter, opts)
}

// ByCategory returns all products in the given category.
func (r *ProductRepository) ByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error) {
	opts := options.Find().
		SetProjection(withoutPhotoData).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"category": categoryID}, opts)
}

// DecrementStock applies a best-effort $inc per line item after a captured
// charge. Errors are returned for logging but never fail the checkout.
func (r *ProductRepository) DecrementStock(ctx context.Context, items []models.OrderItem) error {
	for _, item := range items {
		if item.ProductID.IsZero() || item.Quantity <= 0 {
			continue
		}
		_, err := r.col.UpdateOne(ctx,
			bson.M{"_id": item.ProductID},
			bson.M{"$inc": bson.M{"quantity": -item.Quantity}},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "find products", err)
	}

	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "decode products", err)
	}
	return products, nil
}

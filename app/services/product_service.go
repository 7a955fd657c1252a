package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/config"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/logger"
	"github.com/rishavanand/bazario/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhotoUpload is a parsed multipart photo field.
type PhotoUpload struct {
	Data        []byte
	ContentType string
}

// ProductInput is the parsed multipart form for create/update. Every text
// field is required; updates are full-field replaces.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Quantity    int
	Shipping    bool
	Photo       *PhotoUpload
}

// productStore is the slice of the product repository this service needs.
type productStore interface {
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]models.Product, error)
	Page(ctx context.Context, page int) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Filter(ctx context.Context, categoryIDs []string, price *repositories.PriceRange) ([]models.Product, error)
	Search(ctx context.Context, keyword string) ([]models.Product, error)
	Related(ctx context.Context, productID, categoryID string) ([]models.Product, error)
	ByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error)
}

// categoryReader resolves category slugs for the browse endpoints.
type categoryReader interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// ProductService implements catalog CRUD, photo storage and the browse
// queries (pagination, filters, search, related).
type ProductService struct {
	products   productStore
	categories categoryReader
}

// NewProductService wires the service to the default repositories.
func NewProductService() *ProductService {
	return &ProductService{
		products:   repositories.NewProductRepository(),
		categories: repositories.NewCategoryRepository(),
	}
}

// NewProductServiceWith injects explicit stores (tests).
func NewProductServiceWith(products productStore, categories categoryReader) *ProductService {
	return &ProductService{products: products, categories: categories}
}

// validateInput enforces the field rules shared by create and update.
func validateInput(in ProductInput) error {
	errs := map[string]string{}
	if in.Name == "" {
		errs["name"] = "name is required"
	}
	if in.Description == "" {
		errs["description"] = "description is required"
	}
	if in.Category == "" {
		errs["category"] = "category is required"
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		errs["price"] = "price must be a non-negative number"
	}
	if in.Quantity < 0 {
		errs["quantity"] = "quantity must be non-negative"
	}
	if len(errs) > 0 {
		return apperr.Validation("Validation failed", errs)
	}
	if in.Photo != nil && len(in.Photo.Data) > models.MaxPhotoBytes {
		return apperr.TooLarge("photo must be 1 MB or less")
	}
	return nil
}

// Create inserts a product, storing the photo per the configured disk.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	category, err := primitive.ObjectIDFromHex(in.Category)
	if err != nil {
		return nil, apperr.Validation("Validation failed", map[string]string{"category": "invalid category id"})
	}

	p := &models.Product{
		Name:        in.Name,
		Slug:        models.Slugify(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    category,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
	}
	if in.Photo != nil {
		photo, err := s.storePhoto(p.Slug, in.Photo)
		if err != nil {
			return nil, err
		}
		p.Photo = photo
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces every field of an existing product.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category, err := primitive.ObjectIDFromHex(in.Category)
	if err != nil {
		return nil, apperr.Validation("Validation failed", map[string]string{"category": "invalid category id"})
	}

	p.Name = in.Name
	p.Slug = models.Slugify(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Category = category
	p.Quantity = in.Quantity
	p.Shipping = in.Shipping
	if in.Photo != nil {
		photo, err := s.storePhoto(p.Slug, in.Photo)
		if err != nil {
			return nil, err
		}
		p.Photo = photo
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// storePhoto persists the photo bytes on the configured disk. With
// PHOTO_DISK=mongo the bytes stay in the document; otherwise they land on
// the storage disk and only the path is stored.
func (s *ProductService) storePhoto(slug string, up *PhotoUpload) (models.Photo, error) {
	disk := config.PhotoDisk()
	if disk == "mongo" {
		return models.Photo{Data: up.Data, ContentType: up.ContentType}, nil
	}

	path := fmt.Sprintf("products/%s-%d", slug, time.Now().UnixNano())
	if err := storage.Use(disk).Put(path, up.Data); err != nil {
		return models.Photo{}, apperr.Wrap(apperr.KindUnexpected, "store photo", err)
	}
	return models.Photo{ContentType: up.ContentType, Path: path}, nil
}

// Photo returns the photo bytes and content type for a product.
func (s *ProductService) Photo(ctx context.Context, id string) ([]byte, string, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if len(p.Photo.Data) > 0 {
		return p.Photo.Data, p.Photo.ContentType, nil
	}
	if p.Photo.Path == "" {
		return nil, "", apperr.NotFound("product has no photo")
	}

	data, err := storage.Use(config.PhotoDisk()).Get(p.Photo.Path)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindUnexpected, "read photo", err)
	}
	return data, p.Photo.ContentType, nil
}

// Delete removes the product and best-effort cleans up its disk photo.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	if p.Photo.Path != "" {
		if err := storage.Use(config.PhotoDisk()).Delete(p.Photo.Path); err != nil {
			logger.Warn("products: photo cleanup failed", "path", p.Photo.Path, "error", err)
		}
	}
	return nil
}

// List returns every product, newest first, photo bytes omitted.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.All(ctx)
}

// Page returns one page of the paginated listing.
func (s *ProductService) Page(ctx context.Context, page int) ([]models.Product, error) {
	return s.products.Page(ctx, page)
}

// Count returns the catalog size for the pagination widget.
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.products.Count(ctx)
}

// BySlug returns a single product.
func (s *ProductService) BySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

// Filter applies the category/price filter form.
func (s *ProductService) Filter(ctx context.Context, categoryIDs []string, price *repositories.PriceRange) ([]models.Product, error) {
	return s.products.Filter(ctx, categoryIDs, price)
}

// Search matches a keyword against name and description.
func (s *ProductService) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	return s.products.Search(ctx, keyword)
}

// Related returns similar products from the same category.
func (s *ProductService) Related(ctx context.Context, productID, categoryID string) ([]models.Product, error) {
	return s.products.Related(ctx, productID, categoryID)
}

// ByCategorySlug returns the category plus its products.
func (s *ProductService) ByCategorySlug(ctx context.Context, slug string) (*models.Category, []models.Product, error) {
	cat, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.products.ByCategory(ctx, cat.ID)
	if err != nil {
		return nil, nil, err
	}
	return cat, products, nil
}

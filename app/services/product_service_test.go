package services_test

import (
	"bytes"
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/apperr"
)

type fakeProductStore struct {
	products []*models.Product
}

func (s *fakeProductStore) Create(ctx context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	s.products = append(s.products, p)
	return nil
}

func (s *fakeProductStore) Update(ctx context.Context, p *models.Product) error {
	for i, existing := range s.products {
		if existing.ID == p.ID {
			s.products[i] = p
			return nil
		}
	}
	return apperr.NotFound("Product not found")
}

func (s *fakeProductStore) Delete(ctx context.Context, id string) error {
	for i, p := range s.products {
		if p.ID.Hex() == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Product not found")
}

func (s *fakeProductStore) All(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeProductStore) Page(ctx context.Context, page int) ([]models.Product, error) {
	return s.All(ctx)
}

func (s *fakeProductStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.products)), nil
}

func (s *fakeProductStore) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	for _, p := range s.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, apperr.NotFound("Product not found")
}

func (s *fakeProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return nil, apperr.NotFound("Product not found")
}

func (s *fakeProductStore) Filter(ctx context.Context, categoryIDs []string, price *repositories.PriceRange) ([]models.Product, error) {
	return s.All(ctx)
}

func (s *fakeProductStore) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	return s.All(ctx)
}

func (s *fakeProductStore) Related(ctx context.Context, productID, categoryID string) ([]models.Product, error) {
	return s.All(ctx)
}

func (s *fakeProductStore) ByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.Category == categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeCategoryReader struct {
	cat *models.Category
}

func (r *fakeCategoryReader) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	if r.cat != nil && r.cat.Slug == slug {
		return r.cat, nil
	}
	return nil, apperr.NotFound("Category not found")
}

func productInput() services.ProductInput {
	return services.ProductInput{
		Name:        "Wireless Keyboard",
		Description: "Low-profile keys",
		Price:       49.99,
		Category:    primitive.NewObjectID().Hex(),
		Quantity:    10,
		Shipping:    true,
	}
}

func newProductService(store *fakeProductStore) *services.ProductService {
	return services.NewProductServiceWith(store, &fakeCategoryReader{})
}

func TestProductCreate(t *testing.T) {
	t.Setenv("PHOTO_DISK", "mongo")
	store := &fakeProductStore{}
	svc := newProductService(store)

	in := productInput()
	in.Photo = &services.PhotoUpload{Data: []byte("png-bytes"), ContentType: "image/png"}

	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Slug != "wireless-keyboard" {
		t.Errorf("slug = %q", p.Slug)
	}
	if !bytes.Equal(p.Photo.Data, []byte("png-bytes")) || p.Photo.ContentType != "image/png" {
		t.Error("photo must be stored in the document on the mongo disk")
	}
	if len(store.products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(store.products))
	}
}

func TestProductCreateMissingFields(t *testing.T) {
	svc := newProductService(&fakeProductStore{})

	_, err := svc.Create(context.Background(), services.ProductInput{Price: 10})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := apperr.FieldsOf(err)
	for _, f := range []string{"name", "description", "category"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected a %s field error", f)
		}
	}
}

func TestProductCreateNegativePrice(t *testing.T) {
	store := &fakeProductStore{}
	svc := newProductService(store)

	in := productInput()
	in.Price = -1
	_, err := svc.Create(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.products) != 0 {
		t.Error("invalid product must not be persisted")
	}
}

func TestProductCreatePhotoTooLarge(t *testing.T) {
	svc := newProductService(&fakeProductStore{})

	in := productInput()
	in.Photo = &services.PhotoUpload{
		Data:        make([]byte, models.MaxPhotoBytes+1),
		ContentType: "image/jpeg",
	}
	_, err := svc.Create(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindTooLarge {
		t.Fatalf("expected too-large error, got %v", err)
	}
}

func TestProductCreateBadCategoryID(t *testing.T) {
	svc := newProductService(&fakeProductStore{})

	in := productInput()
	in.Category = "groceries"
	_, err := svc.Create(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProductUpdateReplacesAllFields(t *testing.T) {
	t.Setenv("PHOTO_DISK", "mongo")
	store := &fakeProductStore{}
	svc := newProductService(store)

	created, err := svc.Create(context.Background(), productInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	in := productInput()
	in.Name = "Ergonomic Keyboard"
	in.Price = 89.99
	in.Quantity = 3

	updated, err := svc.Update(context.Background(), created.ID.Hex(), in)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Ergonomic Keyboard" || updated.Slug != "ergonomic-keyboard" {
		t.Errorf("name/slug not replaced: %q %q", updated.Name, updated.Slug)
	}
	if updated.Price != 89.99 || updated.Quantity != 3 {
		t.Error("price/quantity not replaced")
	}
}

func TestProductUpdateUnknownID(t *testing.T) {
	svc := newProductService(&fakeProductStore{})

	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), productInput())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProductPhoto(t *testing.T) {
	t.Setenv("PHOTO_DISK", "mongo")
	store := &fakeProductStore{}
	svc := newProductService(store)

	in := productInput()
	in.Photo = &services.PhotoUpload{Data: []byte{0xFF, 0xD8, 0xFF}, ContentType: "image/jpeg"}
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	data, contentType, err := svc.Photo(context.Background(), created.ID.Hex())
	if err != nil {
		t.Fatalf("photo failed: %v", err)
	}
	if contentType != "image/jpeg" || !bytes.Equal(data, []byte{0xFF, 0xD8, 0xFF}) {
		t.Error("photo bytes or content type mismatch")
	}
}

func TestProductPhotoAbsent(t *testing.T) {
	store := &fakeProductStore{}
	svc := newProductService(store)

	created, err := svc.Create(context.Background(), productInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, _, err = svc.Photo(context.Background(), created.ID.Hex())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for a product without a photo, got %v", err)
	}
}

func TestProductByCategorySlug(t *testing.T) {
	cat := &models.Category{ID: primitive.NewObjectID(), Name: "Books", Slug: "books"}
	store := &fakeProductStore{products: []*models.Product{
		{ID: primitive.NewObjectID(), Name: "Go in Practice", Category: cat.ID},
		{ID: primitive.NewObjectID(), Name: "Lamp", Category: primitive.NewObjectID()},
	}}
	svc := services.NewProductServiceWith(store, &fakeCategoryReader{cat: cat})

	got, products, err := svc.ByCategorySlug(context.Background(), "books")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != cat.ID {
		t.Error("wrong category returned")
	}
	if len(products) != 1 || products[0].Name != "Go in Practice" {
		t.Errorf("expected only the category's products, got %d", len(products))
	}
}

func TestProductByCategorySlugUnknown(t *testing.T) {
	svc := newProductService(&fakeProductStore{})

	_, _, err := svc.ByCategorySlug(context.Background(), "nope")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

package controllers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/app/resources"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/ctx"
	"github.com/rishavanand/bazario/pkg/resource"
	"github.com/rishavanand/bazario/pkg/response"
)

// maxFormMemory bounds in-memory multipart parsing; the photo ceiling is
// enforced separately against the decoded bytes.
const maxFormMemory = 4 << 20 // 4 MB

// ProductController serves catalog CRUD and the browse endpoints.
type ProductController struct {
	service *services.ProductService
}

// NewProductController builds the controller with the default service.
func NewProductController() *ProductController {
	return &ProductController{service: services.NewProductService()}
}

// parseForm reads the multipart product form shared by create and update.
func parseForm(cx *ctx.Context) (services.ProductInput, error) {
	r := cx.R
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return services.ProductInput{}, apperr.BadRequest("malformed multipart form")
	}

	in := services.ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Shipping:    strings.EqualFold(r.FormValue("shipping"), "true") || r.FormValue("shipping") == "1",
	}

	errs := map[string]string{}
	if v := r.FormValue("price"); v == "" {
		errs["price"] = "price is required"
	} else if price, err := strconv.ParseFloat(v, 64); err != nil {
		errs["price"] = "price must be a number"
	} else {
		in.Price = price
	}
	if v := r.FormValue("quantity"); v == "" {
		errs["quantity"] = "quantity is required"
	} else if qty, err := strconv.Atoi(v); err != nil {
		errs["quantity"] = "quantity must be an integer"
	} else {
		in.Quantity = qty
	}
	if len(errs) > 0 {
		return in, apperr.Validation("Validation failed", errs)
	}

	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, models.MaxPhotoBytes+1))
		if readErr != nil {
			return in, apperr.BadRequest("could not read photo upload")
		}
		if len(data) > models.MaxPhotoBytes {
			return in, apperr.TooLarge("photo must be 1 MB or less")
		}
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		in.Photo = &services.PhotoUpload{Data: data, ContentType: contentType}
	}

	return in, nil
}

// Create handles POST /api/product/create-product (multipart).
func (c *ProductController) Create(cx *ctx.Context) {
	in, err := parseForm(cx)
	if err != nil {
		cx.Error(err)
		return
	}

	p, err := c.service.Create(cx.Context(), in)
	if err != nil {
		cx.Error(err)
		return
	}

	cx.Created(response.M{
		"message": "Product created",
		"product": resource.Item(resources.Product, *p),
	})
}

// Update handles PUT /api/product/update-product/{id} (multipart).
func (c *ProductController) Update(cx *ctx.Context) {
	in, err := parseForm(cx)
	if err != nil {
		cx.Error(err)
		return
	}

	p, err := c.service.Update(cx.Context(), cx.Param("id"), in)
	if err != nil {
		cx.Error(err)
		return
	}

	cx.Success(response.M{
		"message": "Product updated",
		"product": resource.Item(resources.Product, *p),
	})
}

// Delete handles DELETE /api/product/delete-product/{id}.
func (c *ProductController) Delete(cx *ctx.Context) {
	if err := c.service.Delete(cx.Context(), cx.Param("id")); err != nil {
		cx.Error(err)
		return
	}
	cx.Message("Product deleted")
}

// List handles GET /api/product/products.
func (c *ProductController) List(cx *ctx.Context) {
	products, err := c.service.List(cx.Context())
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{
		"count":    len(products),
		"products": resource.Items(resources.Product, products),
	})
}

// Show handles GET /api/product/product/{slug}.
func (c *ProductController) Show(cx *ctx.Context) {
	p, err := c.service.BySlug(cx.Context(), cx.Param("slug"))
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{"product": resource.Item(resources.Product, *p)})
}

// Photo handles GET /api/product/product-photo/{id} — raw bytes with the
// stored content type.
func (c *ProductController) Photo(cx *ctx.Context) {
	data, contentType, err := c.service.Photo(cx.Context(), cx.Param("id"))
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Blob(http.StatusOK, contentType, data)
}

// Page handles GET /api/product/product-list/{page}.
func (c *ProductController) Page(cx *ctx.Context) {
	page, err := strconv.Atoi(cx.Param("page"))
	if err != nil || page < 1 {
		page = 1
	}

	products, err := c.service.Page(cx.Context(), page)
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{"products": resource.Items(resources.Product, products)})
}

// Count handles GET /api/product/product-count.
func (c *ProductController) Count(cx *ctx.Context) {
	total, err := c.service.Count(cx.Context())
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{"total": total})
}

// filtersInput is the POST /product-filters payload.
type filtersInput struct {
	Checked []string  `json:"checked"`
	Radio   []float64 `json:"radio"`
}

// Filters handles POST /api/product/product-filters.
func (c *ProductController) Filters(cx *ctx.Context) {
	var in filtersInput
	if err := cx.ShouldBindJSON(&in); err != nil {
		cx.Error(err)
		return
	}

	var price *repositories.PriceRange
	if len(in.Radio) == 2 {
		price = &repositories.PriceRange{Low: in.Radio[0], High: in.Radio[1]}
	}

	products, err := c.service.Filter(cx.Context(), in.Checked, price)
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{"products": resource.Items(resources.Product, products)})
}

// Search handles GET /api/product/search/{keyword}.
func (c *ProductController) Search(cx *ctx.Context) {
	products, err := c.service.Search(cx.Context(), cx.Param("keyword"))
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{"products": resource.Items(resources.Product, products)})
}

// Related handles GET /api/product/related-product/{pid}/{cid}.
func (c *ProductController) Related(cx *ctx.Context) {
	products, err := c.service.Related(cx.Context(), cx.Param("pid"), cx.Param("cid"))
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{"products": resource.Items(resources.Product, products)})
}

// ByCategory handles GET /api/product/product-category/{slug}.
func (c *ProductController) ByCategory(cx *ctx.Context) {
	cat, products, err := c.service.ByCategorySlug(cx.Context(), cx.Param("slug"))
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{
		"category": resource.Item(resources.Category, *cat),
		"products": resource.Items(resources.Product, products),
	})
}

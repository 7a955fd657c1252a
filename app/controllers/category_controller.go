package controllers

import (
	"github.com/rishavanand/bazario/app/resources"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/ctx"
	"github.com/rishavanand/bazario/pkg/resource"
	"github.com/rishavanand/bazario/pkg/response"
)

// CategoryController serves category CRUD.
type CategoryController struct {
	service *services.CategoryService
}

// NewCategoryController builds the controller with the default service.
func NewCategoryController() *CategoryController {
	return &CategoryController{service: services.NewCategoryService()}
}

// Create handles POST /api/category/create-category.
func (c *CategoryController) Create(cx *ctx.Context) {
	var in services.CategoryInput
	if !cx.BindJSON(&in) {
		return
	}

	cat, err := c.service.Create(cx.Context(), in)
	if err != nil {
		cx.Error(err)
		return
	}

	cx.Created(response.M{
		"message":  "Category created",
		"category": resource.Item(resources.Category, *cat),
	})
}

// Update handles PUT /api/category/update-category/{id}.
func (c *CategoryController) Update(cx *ctx.Context) {
	var in services.CategoryInput
	if !cx.BindJSON(&in) {
		return
	}

	cat, err := c.service.Update(cx.Context(), cx.Param("id"), in)
	if err != nil {
		cx.Error(err)
		return
	}

	cx.Success(response.M{
		"message":  "Category updated",
		"category": resource.Item(resources.Category, *cat),
	})
}

// List handles GET /api/category/categories.
func (c *CategoryController) List(cx *ctx.Context) {
	cats, err := c.service.List(cx.Context())
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{"categories": resource.Items(resources.Category, cats)})
}

// Show handles GET /api/category/category/{slug}.
func (c *CategoryController) Show(cx *ctx.Context) {
	cat, err := c.service.BySlug(cx.Context(), cx.Param("slug"))
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{"category": resource.Item(resources.Category, *cat)})
}

// Delete handles DELETE /api/category/delete-category/{id}.
func (c *CategoryController) Delete(cx *ctx.Context) {
	if err := c.service.Delete(cx.Context(), cx.Param("id")); err != nil {
		cx.Error(err)
		return
	}
	cx.Message("Category deleted")
}

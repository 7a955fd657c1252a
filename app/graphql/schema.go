// Package graphql exposes a read-only catalog query surface beside the
// REST API: products, product(slug), categories.
package graphql

import (
	"fmt"
	"net/http"

	gql "github.com/graphql-go/graphql"

	"github.com/rishavanand/bazario/app/services"
	pkggql "github.com/rishavanand/bazario/pkg/graphql"
)

var categoryType = gql.NewObject(gql.ObjectConfig{
	Name: "Category",
	Fields: gql.Fields{
		"id":   &gql.Field{Type: gql.String},
		"name": &gql.Field{Type: gql.String},
		"slug": &gql.Field{Type: gql.String},
	},
})

var productType = gql.NewObject(gql.ObjectConfig{
	Name: "Product",
	Fields: gql.Fields{
		"id":          &gql.Field{Type: gql.String},
		"name":        &gql.Field{Type: gql.String},
		"slug":        &gql.Field{Type: gql.String},
		"description": &gql.Field{Type: gql.String},
		"price":       &gql.Field{Type: gql.Float},
		"quantity":    &gql.Field{Type: gql.Int},
		"shipping":    &gql.Field{Type: gql.Boolean},
		"category":    &gql.Field{Type: gql.String},
	},
})

type productView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Shipping    bool    `json:"shipping"`
	Category    string  `json:"category"`
}

type categoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Handler builds the schema over the catalog services and returns the HTTP
// handler to mount at /api/graphql.
func Handler(products *services.ProductService, categories *services.CategoryService) (http.HandlerFunc, error) {
	rootQuery := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"products": &gql.Field{
				Type: gql.NewList(productType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					list, err := products.List(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]productView, 0, len(list))
					for _, prod := range list {
						out = append(out, productView{
							ID:          prod.ID.Hex(),
							Name:        prod.Name,
							Slug:        prod.Slug,
							Description: prod.Description,
							Price:       prod.Price,
							Quantity:    prod.Quantity,
							Shipping:    prod.Shipping,
							Category:    prod.Category.Hex(),
						})
					}
					return out, nil
				},
			},
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"slug": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					slug, _ := p.Args["slug"].(string)
					prod, err := products.BySlug(p.Context, slug)
					if err != nil {
						return nil, err
					}
					return productView{
						ID:          prod.ID.Hex(),
						Name:        prod.Name,
						Slug:        prod.Slug,
						Description: prod.Description,
						Price:       prod.Price,
						Quantity:    prod.Quantity,
						Shipping:    prod.Shipping,
						Category:    prod.Category.Hex(),
					}, nil
				},
			},
			"categories": &gql.Field{
				Type: gql.NewList(categoryType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					list, err := categories.List(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]categoryView, 0, len(list))
					for _, cat := range list {
						out = append(out, categoryView{
							ID:   cat.ID.Hex(),
							Name: cat.Name,
							Slug: cat.Slug,
						})
					}
					return out, nil
				},
			},
		},
	})

	schema, err := pkggql.NewSchema(rootQuery)
	if err != nil {
		return nil, fmt.Errorf("graphql: build schema: %w", err)
	}
	return pkggql.Handler(schema), nil
}

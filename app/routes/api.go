// Package routes registers every API route against the router. Route names
// follow "resource.action" so route:list and URL generation stay readable.
package routes

import (
	"net/http"

	"github.com/rishavanand/bazario/app/controllers"
	appgraphql "github.com/rishavanand/bazario/app/graphql"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/ctx"
	"github.com/rishavanand/bazario/pkg/logger"
	"github.com/rishavanand/bazario/pkg/middleware"
	"github.com/rishavanand/bazario/pkg/rbac"
	"github.com/rishavanand/bazario/pkg/router"
	"github.com/rishavanand/bazario/pkg/ws"
)

// RegisterAPI mounts every endpoint. hub is the order-feed websocket hub,
// already running.
func RegisterAPI(r *router.Router, hub *ws.Hub) {
	authController := controllers.NewAuthController()
	categoryController := controllers.NewCategoryController()
	productController := controllers.NewProductController()
	checkoutController := controllers.NewCheckoutController()
	orderController := controllers.NewOrderController()

	users := repositories.NewUserRepository()
	adminGate := rbac.RequireAdmin(users.RoleByID)

	api := r.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.Post("/register", "auth.register", ctx.Wrap(authController.Register))
	auth.Post("/login", "auth.login", ctx.Wrap(authController.Login))
	auth.Post("/forgot-password", "auth.forgot_password", ctx.Wrap(authController.ForgotPassword))

	authed := auth.Group("", middleware.Authenticate)
	authed.Put("/profile", "auth.profile", ctx.Wrap(authController.UpdateProfile))
	authed.Get("/user-auth", "auth.user_probe", ctx.Wrap(authController.UserAuth))
	authed.Get("/orders", "orders.mine", ctx.Wrap(orderController.MyOrders))
	authed.Get("/orders/stream", "orders.stream", ctx.Wrap(orderController.Stream))

	adminAuthed := auth.Group("", middleware.Authenticate, adminGate)
	adminAuthed.Get("/admin-auth", "auth.admin_probe", ctx.Wrap(authController.AdminAuth))
	adminAuthed.Get("/all-orders", "orders.all", ctx.Wrap(orderController.AllOrders))
	adminAuthed.Put("/order-status/{orderId}", "orders.status", ctx.Wrap(orderController.UpdateStatus))

	// Category
	category := api.Group("/category")
	category.Get("/categories", "categories.list", ctx.Wrap(categoryController.List))
	category.Get("/category/{slug}", "categories.show", ctx.Wrap(categoryController.Show))

	categoryAdmin := category.Group("", middleware.Authenticate, adminGate)
	categoryAdmin.Post("/create-category", "categories.create", ctx.Wrap(categoryController.Create))
	categoryAdmin.Put("/update-category/{id}", "categories.update", ctx.Wrap(categoryController.Update))
	categoryAdmin.Delete("/delete-category/{id}", "categories.delete", ctx.Wrap(categoryController.Delete))

	// Product
	product := api.Group("/product")
	product.Get("/products", "products.list", ctx.Wrap(productController.List))
	product.Get("/product/{slug}", "products.show", ctx.Wrap(productController.Show))
	product.Get("/product-photo/{id}", "products.photo", ctx.Wrap(productController.Photo))
	product.Get("/product-list/{page}", "products.page", ctx.Wrap(productController.Page))
	product.Get("/product-count", "products.count", ctx.Wrap(productController.Count))
	product.Post("/product-filters", "products.filters", ctx.Wrap(productController.Filters))
	product.Get("/search/{keyword}", "products.search", ctx.Wrap(productController.Search))
	product.Get("/related-product/{pid}/{cid}", "products.related", ctx.Wrap(productController.Related))
	product.Get("/product-category/{slug}", "products.by_category", ctx.Wrap(productController.ByCategory))

	productAdmin := product.Group("", middleware.Authenticate, adminGate)
	productAdmin.Post("/create-product", "products.create", ctx.Wrap(productController.Create))
	productAdmin.Put("/update-product/{id}", "products.update", ctx.Wrap(productController.Update))
	productAdmin.Delete("/delete-product/{id}", "products.delete", ctx.Wrap(productController.Delete))

	// Checkout
	braintree := product.Group("/braintree")
	braintree.Get("/token", "checkout.token", ctx.Wrap(checkoutController.Token))
	braintree.Post("/payment", "checkout.payment", ctx.Wrap(checkoutController.Payment), middleware.Authenticate)

	// GraphQL (read-only catalog)
	gqlHandler, err := appgraphql.Handler(services.NewProductService(), services.NewCategoryService())
	if err != nil {
		logger.Error("routes: graphql schema failed to build", "error", err)
	} else {
		r.Handle("/api/graphql", gqlHandler)
	}

	// Websocket order feed (admin dashboard)
	r.Handle("/ws/orders", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, hub)
	}))
}

package controllers

import (
	"github.com/rishavanand/bazario/app/resources"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/ctx"
	"github.com/rishavanand/bazario/pkg/middleware"
	"github.com/rishavanand/bazario/pkg/resource"
	"github.com/rishavanand/bazario/pkg/response"
)

// CheckoutController serves the gateway token and payment endpoints.
type CheckoutController struct {
	service *services.CheckoutService
}

// NewCheckoutController builds the controller with the default service.
// Call after the payment gateway is bound in the container.
func NewCheckoutController() *CheckoutController {
	return &CheckoutController{service: services.NewCheckoutService()}
}

// NewCheckoutControllerWith injects an explicit service (tests).
func NewCheckoutControllerWith(service *services.CheckoutService) *CheckoutController {
	return &CheckoutController{service: service}
}

// Token handles GET /api/product/braintree/token.
func (c *CheckoutController) Token(cx *ctx.Context) {
	token, err := c.service.ClientToken(cx.Context())
	if err != nil {
		cx.Error(err)
		return
	}
	cx.Success(response.M{"clientToken": token})
}

// Payment handles POST /api/product/braintree/payment.
func (c *CheckoutController) Payment(cx *ctx.Context) {
	var in services.PaymentInput
	if err := cx.ShouldBindJSON(&in); err != nil {
		cx.Error(err)
		return
	}

	buyerID := middleware.UserIDFromCtx(cx.Context())
	order, err := c.service.Payment(cx.Context(), buyerID, in)
	if err != nil {
		cx.Error(err)
		return
	}

	cx.Success(response.M{
		"ok":    true,
		"order": resource.Item(resources.Order, *order),
	})
}

package services

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rishavanand/bazario/app/jobs"
	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/notifications"
	"github.com/rishavanand/bazario/app/payment"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/cache"
	"github.com/rishavanand/bazario/pkg/event"
	"github.com/rishavanand/bazario/pkg/logger"
	"github.com/rishavanand/bazario/pkg/metrics"
	"github.com/rishavanand/bazario/pkg/notification"
	"github.com/rishavanand/bazario/pkg/queue"
)

// Event names fired by the order flow.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

const (
	clientTokenCacheKey = "bazario:cache:gateway_client_token"
	clientTokenCacheTTL = 25 * time.Minute
)

// CartItem is one line of the cart exactly as the frontend submits it.
type CartItem struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// PaymentInput is the checkout payload.
type PaymentInput struct {
	Nonce string     `json:"nonce"`
	Cart  []CartItem `json:"cart"`
}

// orderWriter is the slice of the order repository checkout needs.
type orderWriter interface {
	Create(ctx context.Context, order *models.Order) error
}

// stockWriter applies the post-capture stock decrement.
type stockWriter interface {
	DecrementStock(ctx context.Context, items []models.OrderItem) error
}

// CheckoutService charges the gateway and persists the resulting order.
type CheckoutService struct {
	orders   orderWriter
	products stockWriter
	gateway  payment.Gateway
}

// NewCheckoutService wires the service to the default repositories and the
// container-bound gateway.
func NewCheckoutService() *CheckoutService {
	return &CheckoutService{
		orders:   repositories.NewOrderRepository(),
		products: repositories.NewProductRepository(),
		gateway:  payment.Resolve(),
	}
}

// NewCheckoutServiceWith injects explicit dependencies (tests).
func NewCheckoutServiceWith(orders orderWriter, products stockWriter, gateway payment.Gateway) *CheckoutService {
	return &CheckoutService{orders: orders, products: products, gateway: gateway}
}

// ClientToken returns a gateway client token for the frontend SDK, cached
// well inside the provider's validity window.
func (s *CheckoutService) ClientToken(ctx context.Context) (string, error) {
	var token string
	if cache.Get(ctx, clientTokenCacheKey, &token) && token != "" {
		return token, nil
	}

	token, err := s.gateway.GenerateToken(ctx)
	if err != nil {
		metrics.PaymentFailures.WithLabelValues("token").Inc()
		return "", err
	}
	cache.Set(ctx, clientTokenCacheKey, token, clientTokenCacheTTL) //nolint:errcheck
	return token, nil
}

// validateCart runs the checkout validation ladder. Each rung is a hard
// stop: nonce, then cart shape, then per-item prices.
func validateCart(in PaymentInput) error {
	if in.Nonce == "" {
		return apperr.Validation("Validation failed", map[string]string{
			"nonce": "payment nonce is required",
		})
	}
	if len(in.Cart) == 0 {
		return apperr.Validation("Validation failed", map[string]string{
			"cart": "cart must be a non-empty array",
		})
	}
	for _, item := range in.Cart {
		if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
			return apperr.Validation("Validation failed", map[string]string{
				"cart": "cart contains an invalid price",
			})
		}
	}
	return nil
}

// Total sums the cart in exact cents: each price is rounded to cents
// individually, then summed, so the result carries no float drift.
// The returned string is the decimal amount the gateway expects ("45.49").
func Total(cart []CartItem) string {
	cents := decimal.Zero
	for _, item := range cart {
		c := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(100)).Round(0)
		cents = cents.Add(c)
	}
	return cents.Div(decimal.NewFromInt(100)).StringFixed(2)
}

// Payment runs the full checkout: validate, charge, persist, notify.
//
// A gateway decline or transport error stops before anything is written. A
// persist failure after a captured charge is the one genuinely bad state:
// it is flagged as a partial failure so the client knows money moved, and a
// reconcile job re-attempts the insert with the captured transaction.
func (s *CheckoutService) Payment(ctx context.Context, buyerID string, in PaymentInput) (*models.Order, error) {
	if err := validateCart(in); err != nil {
		return nil, err
	}

	buyer, err := primitive.ObjectIDFromHex(buyerID)
	if err != nil {
		return nil, apperr.BadRequest("invalid buyer id")
	}

	amount := Total(in.Cart)

	result, err := s.gateway.Charge(ctx, amount, in.Nonce)
	if err != nil {
		metrics.PaymentFailures.WithLabelValues("charge").Inc()
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(in.Cart))
	for _, c := range in.Cart {
		item := models.OrderItem{
			Name:        c.Name,
			Description: c.Description,
			Price:       c.Price,
			Quantity:    c.Quantity,
		}
		// A cart id that is not a valid object id still snapshots fine;
		// only the stock decrement skips it.
		if oid, idErr := primitive.ObjectIDFromHex(c.ID); idErr == nil {
			item.ProductID = oid
		}
		items = append(items, item)
	}

	order := &models.Order{
		Products: items,
		Payment:  result,
		Buyer:    buyer,
		Status:   models.StatusNotProcessed,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, s.handleOrphan(buyerID, amount, items, result, err)
	}

	metrics.OrdersCreated.Inc()
	if f, fErr := decimal.NewFromString(amount); fErr == nil {
		v, _ := f.Float64()
		metrics.ChargeAmount.Observe(v)
	}

	if err := s.products.DecrementStock(ctx, items); err != nil {
		logger.Warn("checkout: stock decrement failed", "order_id", order.ID.Hex(), "error", err)
	}

	event.FireAsync(EventOrderCreated, order)

	return order, nil
}

// handleOrphan records a captured charge whose order insert failed: metric,
// ERROR log with the transaction id, Slack alert, and a queued reconcile
// job. The returned error carries the partial-failure kind so the response
// layer can flag payment_captured to the client.
func (s *CheckoutService) handleOrphan(
	buyerID, amount string,
	items []models.OrderItem,
	result map[string]interface{},
	cause error,
) error {
	txnID, _ := result["id"].(string)

	metrics.PaymentOrphaned.Inc()
	logger.Error("checkout: payment captured but order insert failed",
		"transaction_id", txnID,
		"buyer_id", buyerID,
		"amount", amount,
		"error", cause,
	)

	notification.SendAsync("", &notifications.OrphanedPaymentAlert{
		TransactionID: txnID,
		BuyerID:       buyerID,
		Amount:        amount,
	})

	job := &jobs.PaymentReconcile{
		BuyerID:       buyerID,
		Products:      items,
		Payment:       result,
		TransactionID: txnID,
	}
	if qErr := queue.Dispatch(job); qErr != nil {
		logger.Error("checkout: reconcile job dispatch failed",
			"transaction_id", txnID, "error", qErr)
	}

	return apperr.PartialFailure(
		"Payment was captured but the order could not be saved. Support has been notified.",
		cause,
	)
}

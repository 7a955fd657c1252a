package services_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/apperr"
)

// ─── Fakes ────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	token     string
	tokenErr  error
	chargeErr error

	chargedAmount string
	chargedNonce  string
	charges       int
}

func (g *fakeGateway) GenerateToken(ctx context.Context) (string, error) {
	if g.tokenErr != nil {
		return "", g.tokenErr
	}
	return g.token, nil
}

func (g *fakeGateway) Charge(ctx context.Context, amount, nonce string) (bson.M, error) {
	g.charges++
	g.chargedAmount = amount
	g.chargedNonce = nonce
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	return bson.M{"id": "txn_123", "status": "submitted_for_settlement", "amount": amount}, nil
}

type fakeOrderWriter struct {
	createErr error
	created   []*models.Order
}

func (w *fakeOrderWriter) Create(ctx context.Context, order *models.Order) error {
	if w.createErr != nil {
		return w.createErr
	}
	order.ID = primitive.NewObjectID()
	w.created = append(w.created, order)
	return nil
}

type fakeStockWriter struct {
	decremented [][]models.OrderItem
}

func (w *fakeStockWriter) DecrementStock(ctx context.Context, items []models.OrderItem) error {
	w.decremented = append(w.decremented, items)
	return nil
}

func newCheckout(gw *fakeGateway, orders *fakeOrderWriter, stock *fakeStockWriter) *services.CheckoutService {
	return services.NewCheckoutServiceWith(orders, stock, gw)
}

// ─── Total ────────────────────────────────────────────────────────────────────

func TestTotalExactCents(t *testing.T) {
	cases := []struct {
		name string
		cart []services.CartItem
		want string
	}{
		{"two items", []services.CartItem{{Price: 19.99}, {Price: 25.50}}, "45.49"},
		{"empty cart", nil, "0.00"},
		{"single item", []services.CartItem{{Price: 0.10}}, "0.10"},
		{"float drift", []services.CartItem{{Price: 0.10}, {Price: 0.20}}, "0.30"},
		{"many small", []services.CartItem{
			{Price: 1.01}, {Price: 1.01}, {Price: 1.01}, {Price: 1.01}, {Price: 1.01},
		}, "5.05"},
		{"whole amounts", []services.CartItem{{Price: 100}, {Price: 250}}, "350.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Total(tc.cart); got != tc.want {
				t.Errorf("Total(%s) = %q, want %q", tc.name, got, tc.want)
			}
		})
	}
}

func TestTotalManyItemsNoDrift(t *testing.T) {
	// 100 × 0.07 trips float accumulation (7.000000000000001) but must
	// come out as exact cents.
	cart := make([]services.CartItem, 100)
	for i := range cart {
		cart[i] = services.CartItem{Price: 0.07}
	}
	if got := services.Total(cart); got != "7.00" {
		t.Errorf("Total = %q, want 7.00", got)
	}
}

// ─── Payment: validation ladder ───────────────────────────────────────────────

func TestPaymentMissingNonce(t *testing.T) {
	gw := &fakeGateway{}
	svc := newCheckout(gw, &fakeOrderWriter{}, &fakeStockWriter{})

	_, err := svc.Payment(context.Background(), primitive.NewObjectID().Hex(), services.PaymentInput{
		Cart: []services.CartItem{{Name: "Widget", Price: 10}},
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := apperr.FieldsOf(err)["nonce"]; !ok {
		t.Error("expected a nonce field error")
	}
	if gw.charges != 0 {
		t.Error("gateway must not be charged on validation failure")
	}
}

func TestPaymentEmptyCart(t *testing.T) {
	gw := &fakeGateway{}
	svc := newCheckout(gw, &fakeOrderWriter{}, &fakeStockWriter{})

	_, err := svc.Payment(context.Background(), primitive.NewObjectID().Hex(), services.PaymentInput{
		Nonce: "fake-nonce",
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := apperr.FieldsOf(err)["cart"]; !ok {
		t.Error("expected a cart field error")
	}
}

func TestPaymentNegativePrice(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrderWriter{}
	svc := newCheckout(gw, orders, &fakeStockWriter{})

	_, err := svc.Payment(context.Background(), primitive.NewObjectID().Hex(), services.PaymentInput{
		Nonce: "fake-nonce",
		Cart:  []services.CartItem{{Name: "Widget", Price: -5}},
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gw.charges != 0 {
		t.Error("gateway must not be charged for an invalid cart")
	}
	if len(orders.created) != 0 {
		t.Error("nothing may be persisted for an invalid cart")
	}
}

// ─── Payment: happy path ──────────────────────────────────────────────────────

func TestPaymentSuccess(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrderWriter{}
	stock := &fakeStockWriter{}
	svc := newCheckout(gw, orders, stock)

	buyer := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	cart := []services.CartItem{
		{ID: productID.Hex(), Name: "Keyboard", Description: "mechanical", Price: 19.99, Quantity: 1},
		{ID: primitive.NewObjectID().Hex(), Name: "Mouse", Price: 25.50, Quantity: 2},
	}

	order, err := svc.Payment(context.Background(), buyer.Hex(), services.PaymentInput{
		Nonce: "fake-valid-nonce",
		Cart:  cart,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gw.chargedAmount != "45.49" {
		t.Errorf("charged %q, want 45.49", gw.chargedAmount)
	}
	if gw.chargedNonce != "fake-valid-nonce" {
		t.Errorf("charged with nonce %q", gw.chargedNonce)
	}
	if order.Status != models.StatusNotProcessed {
		t.Errorf("new order status = %q, want %q", order.Status, models.StatusNotProcessed)
	}
	if order.Buyer != buyer {
		t.Error("order buyer mismatch")
	}
	if len(orders.created) != 1 {
		t.Fatalf("expected 1 persisted order, got %d", len(orders.created))
	}

	// The order carries a snapshot of the cart as submitted.
	items := order.Products
	if len(items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(items))
	}
	if items[0].ProductID != productID {
		t.Error("first item product id mismatch")
	}
	if items[0].Name != "Keyboard" || items[0].Description != "mechanical" {
		t.Error("first item snapshot mismatch")
	}
	if items[0].Price != 19.99 || items[1].Price != 25.50 {
		t.Error("item prices must be stored as submitted")
	}
	if items[1].Quantity != 2 {
		t.Error("second item quantity mismatch")
	}

	if len(stock.decremented) != 1 {
		t.Fatalf("expected one stock decrement, got %d", len(stock.decremented))
	}
}

func TestPaymentSnapshotSurvivesBadProductID(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrderWriter{}
	svc := newCheckout(gw, orders, &fakeStockWriter{})

	order, err := svc.Payment(context.Background(), primitive.NewObjectID().Hex(), services.PaymentInput{
		Nonce: "fake-valid-nonce",
		Cart:  []services.CartItem{{ID: "not-an-object-id", Name: "Ghost", Price: 9.99, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order.Products) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Products))
	}
	if order.Products[0].Name != "Ghost" || order.Products[0].Price != 9.99 {
		t.Error("item must snapshot even with an unparseable id")
	}
	if !order.Products[0].ProductID.IsZero() {
		t.Error("unparseable id must leave ProductID zero")
	}
}

func TestPaymentInvalidBuyer(t *testing.T) {
	gw := &fakeGateway{}
	svc := newCheckout(gw, &fakeOrderWriter{}, &fakeStockWriter{})

	_, err := svc.Payment(context.Background(), "nope", services.PaymentInput{
		Nonce: "fake-valid-nonce",
		Cart:  []services.CartItem{{Name: "Widget", Price: 10}},
	})
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
	if gw.charges != 0 {
		t.Error("gateway must not be charged for a bad buyer id")
	}
}

// ─── Payment: failure paths ───────────────────────────────────────────────────

func TestPaymentDeclineCreatesNothing(t *testing.T) {
	gw := &fakeGateway{chargeErr: apperr.Upstream("Processor Declined", nil)}
	orders := &fakeOrderWriter{}
	stock := &fakeStockWriter{}
	svc := newCheckout(gw, orders, stock)

	_, err := svc.Payment(context.Background(), primitive.NewObjectID().Hex(), services.PaymentInput{
		Nonce: "fake-valid-nonce",
		Cart:  []services.CartItem{{Name: "Widget", Price: 10}},
	})
	if apperr.KindOf(err) != apperr.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(orders.created) != 0 {
		t.Error("declined charge must not persist an order")
	}
	if len(stock.decremented) != 0 {
		t.Error("declined charge must not touch stock")
	}
}

func TestPaymentPersistFailureIsPartial(t *testing.T) {
	gw := &fakeGateway{}
	orders := &fakeOrderWriter{createErr: errors.New("mongo: connection reset")}
	stock := &fakeStockWriter{}
	svc := newCheckout(gw, orders, stock)

	_, err := svc.Payment(context.Background(), primitive.NewObjectID().Hex(), services.PaymentInput{
		Nonce: "fake-valid-nonce",
		Cart:  []services.CartItem{{Name: "Widget", Price: 10}},
	})
	if apperr.KindOf(err) != apperr.KindPartialFailure {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if gw.charges != 1 {
		t.Error("the charge should have been attempted exactly once")
	}
	if len(stock.decremented) != 0 {
		t.Error("stock must not be decremented when the order insert fails")
	}
}

// ─── ClientToken ──────────────────────────────────────────────────────────────

func TestClientToken(t *testing.T) {
	gw := &fakeGateway{token: "client-token-abc"}
	svc := newCheckout(gw, &fakeOrderWriter{}, &fakeStockWriter{})

	token, err := svc.ClientToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "client-token-abc" {
		t.Errorf("token = %q", token)
	}
}

func TestClientTokenUpstreamError(t *testing.T) {
	gw := &fakeGateway{tokenErr: apperr.Upstream("gateway unreachable", nil)}
	svc := newCheckout(gw, &fakeOrderWriter{}, &fakeStockWriter{})

	if _, err := svc.ClientToken(context.Background()); apperr.KindOf(err) != apperr.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

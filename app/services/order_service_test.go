package services_test

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/apperr"
)

type fakeOrderStore struct {
	orders        []models.Order
	updateCalls   int
	updatedStatus string
}

func (s *fakeOrderStore) ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.Buyer.Hex() == buyerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) All(ctx context.Context) ([]models.Order, error) {
	return s.orders, nil
}

func (s *fakeOrderStore) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	s.updateCalls++
	s.updatedStatus = status
	for i := range s.orders {
		if s.orders[i].ID.Hex() == id {
			s.orders[i].Status = status
			return &s.orders[i], nil
		}
	}
	return nil, apperr.NotFound("Order not found")
}

func TestUpdateStatusValid(t *testing.T) {
	order := models.Order{ID: primitive.NewObjectID(), Status: models.StatusNotProcessed}
	store := &fakeOrderStore{orders: []models.Order{order}}
	svc := services.NewOrderServiceWith(store)

	updated, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), models.StatusShipped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.StatusShipped {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusShipped)
	}
}

func TestUpdateStatusEveryEnumValue(t *testing.T) {
	for _, status := range models.OrderStatuses {
		order := models.Order{ID: primitive.NewObjectID()}
		store := &fakeOrderStore{orders: []models.Order{order}}
		svc := services.NewOrderServiceWith(store)

		if _, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), status); err != nil {
			t.Errorf("status %q rejected: %v", status, err)
		}
	}
}

func TestUpdateStatusInvalidLeavesStoreUntouched(t *testing.T) {
	order := models.Order{ID: primitive.NewObjectID(), Status: models.StatusNotProcessed}
	store := &fakeOrderStore{orders: []models.Order{order}}
	svc := services.NewOrderServiceWith(store)

	for _, bad := range []string{"shipped", "SHIPPED", "Returned", "", "Not  Processed"} {
		_, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), bad)
		if apperr.KindOf(err) != apperr.KindBadRequest {
			t.Errorf("status %q: expected bad request, got %v", bad, err)
		}
	}
	if store.updateCalls != 0 {
		t.Errorf("store was written %d times for invalid statuses", store.updateCalls)
	}
	if store.orders[0].Status != models.StatusNotProcessed {
		t.Error("stored status must be unchanged")
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := services.NewOrderServiceWith(&fakeOrderStore{})

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), models.StatusDelivered)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestByBuyerScopesToBuyer(t *testing.T) {
	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	store := &fakeOrderStore{orders: []models.Order{
		{ID: primitive.NewObjectID(), Buyer: mine},
		{ID: primitive.NewObjectID(), Buyer: other},
		{ID: primitive.NewObjectID(), Buyer: mine},
	}}
	svc := services.NewOrderServiceWith(store)

	orders, err := svc.ByBuyer(context.Background(), mine.Hex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	for _, o := range orders {
		if o.Buyer != mine {
			t.Error("foreign order leaked into buyer listing")
		}
	}
}

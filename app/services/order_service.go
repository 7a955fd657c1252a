package services

import (
	"context"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/event"
)

// StatusInput is the payload for the admin status update.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

// orderStore is the slice of the order repository this service needs.
type orderStore interface {
	ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Order, error)
}

// OrderService lists orders and drives the status lifecycle.
type OrderService struct {
	orders orderStore
}

// NewOrderService wires the service to the default repository.
func NewOrderService() *OrderService {
	return &OrderService{orders: repositories.NewOrderRepository()}
}

// NewOrderServiceWith injects an explicit store (tests).
func NewOrderServiceWith(orders orderStore) *OrderService {
	return &OrderService{orders: orders}
}

// ByBuyer returns the buyer's orders, newest first.
func (s *OrderService) ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	return s.orders.ByBuyer(ctx, buyerID)
}

// All returns every order, newest first (admin listing).
func (s *OrderService) All(ctx context.Context) ([]models.Order, error) {
	return s.orders.All(ctx)
}

// UpdateStatus moves an order to a new status. A value outside the closed
// enum is rejected before anything touches storage.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, apperr.BadRequest("invalid order status")
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	event.FireAsync(EventOrderStatusChanged, order)
	return order, nil
}

package jobs

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/pkg/logger"
)

// PaymentReconcile re-attempts the order insert for a charge the gateway
// captured but whose first persist failed. The payload carries everything
// needed to rebuild the order, so the job is self-contained and safe to
// replay from the failed-jobs store.
type PaymentReconcile struct {
	BuyerID       string             `json:"buyer_id"`
	Products      []models.OrderItem `json:"products"`
	Payment       bson.M             `json:"payment"`
	TransactionID string             `json:"transaction_id"`
}

// Handle inserts the order that should have been written at checkout time.
// An error here puts the job back on the queue; exhausted retries land in
// the failed-jobs store for manual replay.
func (j *PaymentReconcile) Handle() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	repo := repositories.NewOrderRepository()

	buyer, err := parseObjectID(j.BuyerID)
	if err != nil {
		return err
	}

	order := &models.Order{
		Products: j.Products,
		Payment:  j.Payment,
		Buyer:    buyer,
		Status:   models.StatusNotProcessed,
	}
	if err := repo.Create(ctx, order); err != nil {
		return err
	}

	logger.Info("jobs: reconciled orphaned payment",
		"transaction_id", j.TransactionID,
		"order_id", order.ID.Hex(),
	)
	return nil
}

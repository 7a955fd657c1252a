// Package jobs holds the queue job types dispatched by the services layer.
// Each job is registered with the queue under a stable name so the Redis
// driver can reconstruct it on any worker.
package jobs

import (
	"fmt"

	"github.com/rishavanand/bazario/pkg/mail"
	"github.com/rishavanand/bazario/pkg/queue"
)

// OrderConfirmation emails the buyer after a successful checkout.
type OrderConfirmation struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	OrderID string `json:"order_id"`
	Amount  string `json:"amount"`
}

// Handle sends the confirmation email.
func (j *OrderConfirmation) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for your order <b>%s</b>. We charged %s and will "+
			"let you know as soon as it ships.</p>",
		j.Name, j.OrderID, j.Amount,
	)

	return mail.To(j.Email).
		Subject("Your order is confirmed").
		Body(body).
		Send()
}

// RegisterAll registers every job type with the queue. Called once at boot
// and in worker processes before StartWorkers.
func RegisterAll() {
	queue.Register("*jobs.OrderConfirmation", func() queue.Job { return &OrderConfirmation{} })
	queue.Register("*jobs.PaymentReconcile", func() queue.Job { return &PaymentReconcile{} })
}

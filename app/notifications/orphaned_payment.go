// Package notifications defines the alert types sent through the
// notification channels.
package notifications

import (
	"fmt"

	"github.com/rishavanand/bazario/pkg/notification"
)

// OrphanedPaymentAlert pages the ops channel when a charge was captured but
// the order insert failed. The transaction id is what support needs to
// refund or replay the charge.
type OrphanedPaymentAlert struct {
	TransactionID string
	BuyerID       string
	Amount        string
}

// Via routes the alert to Slack.
func (n *OrphanedPaymentAlert) Via() []string { return []string{"slack"} }

// ToSlack formats the alert payload.
func (n *OrphanedPaymentAlert) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf(
			":rotating_light: Orphaned payment: charge %s (%s) captured for buyer %s "+
				"but the order was not persisted. A reconcile job has been queued.",
			n.TransactionID, n.Amount, n.BuyerID,
		),
	}
}

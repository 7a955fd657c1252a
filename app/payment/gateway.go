// Package payment abstracts the card payment gateway used at checkout.
//
// The server binds the HTTP-backed client in the container under
// payment.BindingKey; tests swap in a fake:
//
//	container.Instance(payment.BindingKey, &fakeGateway{})
package payment

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/rishavanand/bazario/pkg/container"
)

// BindingKey is the container key under which the active gateway lives.
const BindingKey = "payment.gateway"

// Gateway is the minimal surface checkout needs from the payment provider.
type Gateway interface {
	// GenerateToken returns a client token for the frontend drop-in SDK.
	GenerateToken(ctx context.Context) (string, error)

	// Charge submits a sale for the given decimal amount (e.g. "45.49")
	// using the payment method nonce collected by the frontend. The returned
	// document is the provider's raw transaction result and is stored on the
	// order verbatim.
	Charge(ctx context.Context, amount, nonce string) (bson.M, error)
}

// Resolve returns the gateway bound in the container.
func Resolve() Gateway {
	return container.Make(BindingKey).(Gateway)
}

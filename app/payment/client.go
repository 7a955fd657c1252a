package payment

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/rishavanand/bazario/config"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/httpx"
)

// Client talks to a Braintree-compatible gateway over its JSON API,
// authenticating with the merchant's public/private key pair.
type Client struct {
	baseURL    string
	merchantID string
	publicKey  string
	privateKey string
}

// NewClient builds a gateway client from configuration.
func NewClient() *Client {
	return &Client{
		baseURL:    config.GatewayURL(),
		merchantID: config.GatewayMerchantID(),
		publicKey:  config.GatewayPublicKey(),
		privateKey: config.GatewayPrivateKey(),
	}
}

type tokenResponse struct {
	ClientToken string `json:"clientToken"`
}

// GenerateToken requests a client token for the frontend drop-in SDK.
func (c *Client) GenerateToken(ctx context.Context) (string, error) {
	resp, err := httpx.Post(c.baseURL+"/merchants/"+c.merchantID+"/client_token").
		BasicAuth(c.publicKey, c.privateKey).
		Timeout(10 * time.Second).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, "gateway token request failed", err)
	}
	if !resp.OK() {
		return "", apperr.Upstream("gateway token request rejected", nil)
	}

	var body tokenResponse
	if err := resp.JSON(&body); err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, "gateway token response malformed", err)
	}
	return body.ClientToken, nil
}

type saleRequest struct {
	Amount             string `json:"amount"`
	PaymentMethodNonce string `json:"paymentMethodNonce"`
	SubmitForSettlement bool  `json:"submitForSettlement"`
}

type saleResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Transaction bson.M `json:"transaction,omitempty"`
}

// Charge submits a sale transaction. A declined card comes back as an
// upstream error; the raw transaction document is returned on success.
func (c *Client) Charge(ctx context.Context, amount, nonce string) (bson.M, error) {
	resp, err := httpx.Post(c.baseURL+"/merchants/"+c.merchantID+"/transactions").
		BasicAuth(c.publicKey, c.privateKey).
		Body(saleRequest{
			Amount:             amount,
			PaymentMethodNonce: nonce,
			SubmitForSettlement: true,
		}).
		Timeout(30 * time.Second).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "gateway charge request failed", err)
	}

	var body saleResponse
	if err := resp.JSON(&body); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "gateway charge response malformed", err)
	}
	if !resp.OK() || !body.Success {
		msg := body.Message
		if msg == "" {
			msg = "payment declined"
		}
		return nil, apperr.Upstream(msg, nil)
	}
	return body.Transaction, nil
}

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/diogomassis/ngenius-bridge/internal/models"
)

// SettlementPayload is the instrument-specific proof posted to an order's
// settlement link.
type SettlementPayload interface {
	settlementOp() string
}

type SavedCardPayload struct {
	CardholderName string `json:"cardholderName"`
	CardToken      string `json:"cardToken"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv,omitempty"`
}

func (SavedCardPayload) settlementOp() string { return "settle saved card" }

// WalletTokenPayload carries the opaque token returned by a wallet sheet.
// PaymentToken is only sent, as a header, to the paypage variant.
type WalletTokenPayload struct {
	Token        string `json:"token"`
	PaymentToken string `json:"-"`
}

func (WalletTokenPayload) settlementOp() string { return "settle wallet token" }

// SettlePayment finalizes a payment against the settlement link taken from
// the order.
func (c *Client) SettlePayment(ctx context.Context, token models.AccessToken, link string, payload SettlementPayload) (*models.PaymentResult, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: no settlement payload", ErrSettlement)
	}
	req, err := c.settlementRequest(token, link, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSettlement, err)
	}

	var result models.PaymentResult
	if err := c.do(ctx, req, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSettlement, err)
	}
	if result.Declined() {
		return &result, fmt.Errorf("%w: %s: payment state %s", ErrSettlement, req.op, result.State)
	}
	return &result, nil
}

func (c *Client) settlementRequest(token models.AccessToken, link string, payload SettlementPayload) (request, error) {
	if link == "" {
		return request{}, errors.New("settlement link is empty")
	}
	req := request{op: payload.settlementOp(), url: link, body: payload}

	switch p := payload.(type) {
	case SavedCardPayload:
		if p.CardToken == "" {
			return request{}, errors.New("saved card payload has no card token")
		}
		req.method = http.MethodPut
		req.headers = paymentHeaders(token)
	case WalletTokenPayload:
		if p.Token == "" {
			return request{}, errors.New("wallet payload has no token")
		}
		u, err := url.Parse(link)
		if err != nil {
			return request{}, fmt.Errorf("invalid settlement link: %w", err)
		}
		q := u.Query()
		q.Set("isWebPayment", "true")
		u.RawQuery = q.Encode()
		req.url = u.String()

		switch c.cfg.Variant {
		case VariantPayPage:
			if p.PaymentToken == "" {
				return request{}, errors.New("paypage settlement requires a payment token")
			}
			req.method = http.MethodPut
			req.headers = map[string]string{
				"Access-Token":  token.Value,
				"Payment-Token": p.PaymentToken,
				"Content-Type":  "application/json",
				"Accept":        "application/json",
			}
		default:
			req.method = http.MethodPost
			req.headers = paymentHeaders(token)
		}
	default:
		return request{}, fmt.Errorf("unsupported settlement payload %T", payload)
	}
	return req, nil
}

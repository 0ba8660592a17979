package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/diogomassis/ngenius-bridge/internal/models"
)

type identityRequest struct {
	GrantType string `json:"grant_type"`
	Realm     string `json:"realm"`
}

type identityResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type orderRequest struct {
	Action    string                  `json:"action"`
	Amount    models.Amount           `json:"amount"`
	SavedCard *models.SavedCardRecord `json:"savedCard,omitempty"`
}

// CreateToken exchanges the API key for a short-lived access token.
func (c *Client) CreateToken(ctx context.Context) (models.AccessToken, error) {
	if c.cfg.APIKey == "" {
		return models.AccessToken{}, fmt.Errorf("%w: api key is not configured", ErrAuth)
	}

	var resp identityResponse
	err := c.do(ctx, request{
		op:     "create token",
		method: http.MethodPost,
		url:    c.cfg.IdentityURL,
		body:   identityRequest{GrantType: "client_credentials", Realm: c.cfg.Realm},
		headers: map[string]string{
			"Authorization": "Basic " + c.cfg.APIKey,
			"Content-Type":  identityMediaType,
			"Accept":        identityMediaType,
		},
	}, &resp)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 {
			return models.AccessToken{}, fmt.Errorf("%w: %w", ErrAuth, err)
		}
		return models.AccessToken{}, err
	}
	if resp.AccessToken == "" {
		return models.AccessToken{}, fmt.Errorf("%w: identity response has no access_token", ErrAuth)
	}

	token := models.AccessToken{Value: resp.AccessToken}
	if resp.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return token, nil
}

// CreateOrder creates a SALE order for amount minor units in the configured
// currency. A saved card is embedded so the gateway offers the saved-card
// payment link.
func (c *Client) CreateOrder(ctx context.Context, token models.AccessToken, amount int64, savedCard *models.SavedCardRecord) (*models.Order, error) {
	if amount < 0 {
		return nil, fmt.Errorf("create order: amount must not be negative, got %d", amount)
	}

	var order models.Order
	err := c.do(ctx, request{
		op:     "create order",
		method: http.MethodPost,
		url:    fmt.Sprintf("%s/outlets/%s/orders", c.cfg.GatewayURL, url.PathEscape(c.cfg.OutletID)),
		body: orderRequest{
			Action:    "SALE",
			Amount:    models.Amount{CurrencyCode: c.cfg.Currency, Value: amount},
			SavedCard: savedCard,
		},
		headers: paymentHeaders(token),
	}, &order)
	if err != nil {
		return nil, err
	}
	if order.OutletID == "" {
		order.OutletID = c.cfg.OutletID
	}
	return &order, nil
}

// GetOrder re-fetches an order, typically to read back the tokenized card
// after an out-of-band payment.
func (c *Client) GetOrder(ctx context.Context, token models.AccessToken, orderReference string) (*models.Order, error) {
	if orderReference == "" {
		return nil, errors.New("get order: order reference is required")
	}

	var order models.Order
	err := c.do(ctx, request{
		op:      "get order",
		method:  http.MethodGet,
		url:     fmt.Sprintf("%s/orders/%s", c.cfg.GatewayURL, url.PathEscape(orderReference)),
		headers: paymentHeaders(token),
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func paymentHeaders(token models.AccessToken) map[string]string {
	return map[string]string{
		"Authorization": bearer(token.Value),
		"Content-Type":  paymentMediaType,
		"Accept":        paymentMediaType,
	}
}

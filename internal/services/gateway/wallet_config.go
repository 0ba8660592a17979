package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/diogomassis/ngenius-bridge/internal/models"
)

const defaultAllowedPaymentMethods = `[{"type":"CARD","parameters":{"allowedAuthMethods":["PAN_ONLY","CRYPTOGRAM_3DS"],"allowedCardNetworks":["VISA","MASTERCARD"]},"tokenizationSpecification":{"type":"PAYMENT_GATEWAY","parameters":{"gateway":"networkintl"}}}]`

// GetWalletConfig fetches the Google Pay merchant configuration. Any failure
// falls back to DefaultWalletConfig so wallet initiation is never blocked by
// this call.
func (c *Client) GetWalletConfig(ctx context.Context, token models.AccessToken, order *models.Order) *models.WalletConfig {
	headers := map[string]string{
		"Access-Token": token.Value,
		"Accept":       "application/json",
	}
	if c.cfg.HierarchyRef != "" {
		headers["hierarchyRef"] = c.cfg.HierarchyRef
	}
	if order != nil {
		if code, ok := order.AuthorizationCode(); ok {
			headers["Payment-Token"] = code
		}
	}

	var cfg models.WalletConfig
	err := c.do(ctx, request{
		op:      "get wallet config",
		method:  http.MethodGet,
		url:     fmt.Sprintf("%s/outlets/%s/google-pay/config", c.cfg.PayPageAPIURL, url.PathEscape(c.cfg.OutletID)),
		headers: headers,
	}, &cfg)
	if err != nil || cfg.MerchantGatewayID == "" {
		c.logger.Warn().Err(err).Msg("wallet config unavailable, using default")
		return c.DefaultWalletConfig()
	}
	return &cfg
}

func (c *Client) DefaultWalletConfig() *models.WalletConfig {
	return &models.WalletConfig{
		AllowedPaymentMethods: []byte(defaultAllowedPaymentMethods),
		GatewayName:           "networkintl",
		Environment:           "TEST",
		MerchantInfo:          models.MerchantInfo{MerchantName: c.cfg.MerchantName},
		MerchantGatewayID:     c.cfg.OutletID,
		Fallback:              true,
	}
}

package dispatcher

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/diogomassis/ngenius-bridge/internal/models"
)

// ResolveGooglePaySettlementLink prefers the link the gateway put on the
// order. fallback reports that the URL was built by FallbackGooglePaySettlementURL.
func ResolveGooglePaySettlementLink(order *models.Order, gatewayURL string) (link string, fallback bool, err error) {
	if href, ok := order.PaymentLink(models.RelGooglePay); ok {
		return href, false, nil
	}

	var paymentRef string
	if p, ok := order.FirstPayment(); ok {
		paymentRef = p.Reference
		if paymentRef == "" {
			paymentRef = strings.TrimPrefix(p.ID, "urn:payment:")
		}
	}
	link, err = FallbackGooglePaySettlementURL(gatewayURL, order.OutletID, order.Reference, paymentRef)
	if err != nil {
		return "", true, err
	}
	return link, true, nil
}

// FallbackGooglePaySettlementURL builds the Google Pay settlement URL from
// raw identifiers. The route is not published by the gateway and may change.
func FallbackGooglePaySettlementURL(gatewayURL, outletID, orderRef, paymentRef string) (string, error) {
	var missing []string
	for _, c := range []fieldCheck{
		{"gatewayURL", gatewayURL},
		{"outletId", outletID},
		{"orderRef", orderRef},
		{"paymentRef", paymentRef},
	} {
		if strings.TrimSpace(c.value) == "" {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: cannot build google pay fallback url, missing %s", ErrSettlementLinkUnavailable, strings.Join(missing, ", "))
	}

	return fmt.Sprintf("%s/outlets/%s/orders/%s/payments/%s/google-pay",
		strings.TrimRight(gatewayURL, "/"),
		url.PathEscape(outletID),
		url.PathEscape(orderRef),
		url.PathEscape(paymentRef),
	), nil
}

package dispatcher

import (
	"strings"

	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/gateway"
)

type fieldCheck struct {
	name  string
	value string
}

func requireFields(instrument models.Instrument, checks ...fieldCheck) error {
	var missing []string
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Instrument: instrument, Missing: missing}
	}
	return nil
}

func validateCard(order *models.Order) error {
	authorization, _ := order.Links.Href(models.RelPaymentAuthorization)
	code, _ := order.AuthorizationCode()
	return requireFields(models.InstrumentCard,
		fieldCheck{"_links.payment-authorization", authorization},
		fieldCheck{"_links.payment code", code},
	)
}

func validateSamsungPay(cfg *models.SamsungPayConfig) error {
	if cfg == nil {
		cfg = &models.SamsungPayConfig{}
	}
	return requireFields(models.InstrumentSamsungPay,
		fieldCheck{"merchantName", cfg.MerchantName},
		fieldCheck{"serviceId", cfg.ServiceID},
	)
}

func validateApplePay(cfg *models.ApplePayConfig) error {
	if cfg == nil {
		cfg = &models.ApplePayConfig{}
	}
	return requireFields(models.InstrumentApplePay,
		fieldCheck{"merchantIdentifier", cfg.MerchantIdentifier},
		fieldCheck{"countryCode", cfg.CountryCode},
		fieldCheck{"merchantName", cfg.MerchantName},
	)
}

func validateGooglePay(cfg *models.GooglePayConfig) error {
	if cfg == nil {
		cfg = &models.GooglePayConfig{}
	}
	return requireFields(models.InstrumentGooglePay,
		fieldCheck{"countryCode", cfg.CountryCode},
	)
}

// validateWalletSettlement checks that a wallet token could be settled
// before the sheet is shown. The paypage variant authenticates settlement
// with the order's payment token.
func validateWalletSettlement(order *models.Order, variant gateway.Variant) error {
	if variant != gateway.VariantPayPage {
		return nil
	}
	code, _ := order.AuthorizationCode()
	return requireFields(models.InstrumentGooglePay,
		fieldCheck{"_links.payment code", code},
	)
}

func validateSavedCard(card *models.SavedCardRecord) error {
	if card == nil {
		card = &models.SavedCardRecord{}
	}
	return requireFields(models.InstrumentSavedCard,
		fieldCheck{"cardToken", card.CardToken},
		fieldCheck{"cardholderName", card.CardholderName},
		fieldCheck{"expiry", card.Expiry},
	)
}

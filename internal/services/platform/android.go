package platform

import (
	"context"

	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/dispatcher"
)

var androidInstruments = []models.Instrument{
	models.InstrumentCard,
	models.InstrumentSavedCard,
	models.InstrumentSamsungPay,
	models.InstrumentGooglePay,
}

type android struct {
	base
}

func (a *android) Name() models.Platform {
	return models.PlatformAndroid
}

// Probe checks Samsung Pay and Google Pay independently.
func (a *android) Probe(ctx context.Context) models.WalletAvailability {
	return a.probe(ctx, models.PlatformAndroid, []check{
		{
			name: "samsung_pay",
			run: func(ctx context.Context) (bool, error) {
				if a.cfg.SamsungPayServiceID == "" {
					return false, nil
				}
				return a.caps.SamsungPayEnabled(ctx, a.cfg.SamsungPayServiceID)
			},
			set: func(w *models.WalletAvailability, ok bool) { w.SamsungPay = ok },
		},
		{
			name: "google_pay",
			run:  a.caps.GooglePaySupported,
			set:  func(w *models.WalletAvailability, ok bool) { w.GooglePay = ok },
		},
	})
}

func (a *android) Dispatch(ctx context.Context, attempt *dispatcher.Attempt, req models.PaymentInstrumentRequest) (models.PaymentOutcome, error) {
	return a.dispatch(ctx, a, androidInstruments, attempt, req)
}

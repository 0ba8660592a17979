package platform

import (
	"context"

	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/dispatcher"
)

var iosInstruments = []models.Instrument{
	models.InstrumentCard,
	models.InstrumentSavedCard,
	models.InstrumentApplePay,
}

type ios struct {
	base
}

func (i *ios) Name() models.Platform {
	return models.PlatformIOS
}

func (i *ios) Probe(ctx context.Context) models.WalletAvailability {
	return i.probe(ctx, models.PlatformIOS, []check{
		{
			name: "apple_pay",
			run:  i.caps.ApplePaySupported,
			set:  func(w *models.WalletAvailability, ok bool) { w.ApplePay = ok },
		},
	})
}

func (i *ios) Dispatch(ctx context.Context, attempt *dispatcher.Attempt, req models.PaymentInstrumentRequest) (models.PaymentOutcome, error) {
	return i.dispatch(ctx, i, iosInstruments, attempt, req)
}

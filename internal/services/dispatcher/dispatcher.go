package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/bridge"
	"github.com/diogomassis/ngenius-bridge/internal/services/gateway"
)

type NativeBridge interface {
	CardPayment(ctx context.Context, order *models.Order) (bridge.NativeResult, error)
	SamsungPay(ctx context.Context, order *models.Order, merchantName, serviceID string) (bridge.NativeResult, error)
	ApplePay(ctx context.Context, order *models.Order, sheet bridge.ApplePaySheet) (bridge.NativeResult, error)
	GooglePay(ctx context.Context, order *models.Order, sheet bridge.GooglePaySheet) (bridge.NativeResult, error)
	ThreeDSTwo(ctx context.Context, payment *models.PaymentResult) (bridge.NativeResult, error)
}

type Settler interface {
	SettlePayment(ctx context.Context, token models.AccessToken, link string, payload gateway.SettlementPayload) (*models.PaymentResult, error)
	GetWalletConfig(ctx context.Context, token models.AccessToken, order *models.Order) *models.WalletConfig
}

type Config struct {
	GatewayURL    string
	NativeTimeout time.Duration
	// Variant decides what wallet settlement needs from the order.
	Variant gateway.Variant
}

// Dispatcher drives one instrument for an attempt and reduces whatever
// happens to a PaymentOutcome.
type Dispatcher struct {
	native  NativeBridge
	settler Settler
	cfg     Config
	logger  zerolog.Logger
}

func New(native NativeBridge, settler Settler, cfg Config, logger zerolog.Logger) *Dispatcher {
	if cfg.NativeTimeout <= 0 {
		cfg.NativeTimeout = 2 * time.Minute
	}
	return &Dispatcher{native: native, settler: settler, cfg: cfg, logger: logger}
}

// Dispatch runs req against the attempt's order. The outcome is always
// populated; err carries the granular cause when the outcome is not Success.
func (d *Dispatcher) Dispatch(ctx context.Context, attempt *Attempt, req models.PaymentInstrumentRequest) (models.PaymentOutcome, error) {
	if attempt == nil {
		return errorOutcome(req.Instrument, models.OutcomeError, ErrOrderNotReady)
	}
	defer attempt.resolve()

	if attempt.Order == nil || attempt.Order.Amount.CurrencyCode == "" {
		return errorOutcome(req.Instrument, models.OutcomeError, ErrOrderNotReady)
	}
	if attempt.State() != StateOrderRequested {
		return errorOutcome(req.Instrument, models.OutcomeError,
			fmt.Errorf("%w: attempt is %s", ErrOrderNotReady, attempt.State()))
	}

	logger := d.logger.With().
		Str("attempt", attempt.ID).
		Str("order", attempt.Order.Reference).
		Str("instrument", string(req.Instrument)).
		Logger()

	var (
		outcome models.PaymentOutcome
		err     error
	)
	switch req.Instrument {
	case models.InstrumentCard:
		outcome, err = d.card(ctx, attempt)
	case models.InstrumentSamsungPay:
		outcome, err = d.samsungPay(ctx, attempt, req.SamsungPay)
	case models.InstrumentApplePay:
		outcome, err = d.applePay(ctx, attempt, req.ApplePay)
	case models.InstrumentGooglePay:
		outcome, err = d.googlePay(ctx, attempt, req.GooglePay, logger)
	case models.InstrumentSavedCard:
		outcome, err = d.savedCard(ctx, attempt, req.SavedCard, req.CVV)
	default:
		outcome, err = errorOutcome(req.Instrument, models.OutcomeNotSupported,
			fmt.Errorf("%w: %q", ErrInstrumentNotSupported, req.Instrument))
	}

	if err != nil {
		logger.Warn().Err(err).Str("status", string(outcome.Status)).Msg("payment attempt did not succeed")
	} else {
		logger.Info().Str("status", string(outcome.Status)).Msg("payment attempt resolved")
	}
	return outcome, err
}

func (d *Dispatcher) card(ctx context.Context, attempt *Attempt) (models.PaymentOutcome, error) {
	if err := validateCard(attempt.Order); err != nil {
		return errorOutcome(models.InstrumentCard, models.OutcomeError, err)
	}
	res, err := d.nativeCall(ctx, attempt, func(ctx context.Context) (bridge.NativeResult, error) {
		return d.native.CardPayment(ctx, attempt.Order)
	})
	if err != nil {
		return errorOutcome(models.InstrumentCard, models.OutcomeError, err)
	}
	return nativeOutcome(models.InstrumentCard, bridge.OpCardPayment, res)
}

func (d *Dispatcher) samsungPay(ctx context.Context, attempt *Attempt, cfg *models.SamsungPayConfig) (models.PaymentOutcome, error) {
	if err := validateSamsungPay(cfg); err != nil {
		return errorOutcome(models.InstrumentSamsungPay, models.OutcomeError, err)
	}
	display := FormatMinorUnits(attempt.Order.Amount.Value)
	res, err := d.nativeCall(ctx, attempt, func(ctx context.Context) (bridge.NativeResult, error) {
		return d.native.SamsungPay(ctx, attempt.Order, cfg.MerchantName, cfg.ServiceID)
	})
	if err != nil {
		return errorOutcome(models.InstrumentSamsungPay, models.OutcomeError, err)
	}
	outcome, err := nativeOutcome(models.InstrumentSamsungPay, bridge.OpSamsungPay, res)
	outcome.DisplayAmount = display
	return outcome, err
}

func (d *Dispatcher) applePay(ctx context.Context, attempt *Attempt, cfg *models.ApplePayConfig) (models.PaymentOutcome, error) {
	if err := validateApplePay(cfg); err != nil {
		return errorOutcome(models.InstrumentApplePay, models.OutcomeError, err)
	}
	sheet := bridge.ApplePaySheet{
		WalletSheet: walletSheet(attempt.Order, cfg.MerchantName, cfg.CountryCode),
		Config:      *cfg,
	}
	if len(sheet.Config.MerchantCapabilities) == 0 {
		sheet.Config.MerchantCapabilities = []string{models.MerchantCapabilityThreeDS, models.MerchantCapabilityDebit, models.MerchantCapabilityCredit}
	}
	res, err := d.nativeCall(ctx, attempt, func(ctx context.Context) (bridge.NativeResult, error) {
		return d.native.ApplePay(ctx, attempt.Order, sheet)
	})
	if err != nil {
		return errorOutcome(models.InstrumentApplePay, models.OutcomeError, err)
	}
	outcome, err := nativeOutcome(models.InstrumentApplePay, bridge.OpApplePay, res)
	outcome.DisplayAmount = sheet.TotalPrice
	return outcome, err
}

// googlePay only succeeds once the wallet token has been settled with the
// gateway; a token from the sheet alone is not a payment.
func (d *Dispatcher) googlePay(ctx context.Context, attempt *Attempt, cfg *models.GooglePayConfig, logger zerolog.Logger) (models.PaymentOutcome, error) {
	if err := validateGooglePay(cfg); err != nil {
		return errorOutcome(models.InstrumentGooglePay, models.OutcomeError, err)
	}
	if err := validateWalletSettlement(attempt.Order, d.cfg.Variant); err != nil {
		return errorOutcome(models.InstrumentGooglePay, models.OutcomeError, err)
	}

	link, fallback, err := ResolveGooglePaySettlementLink(attempt.Order, d.cfg.GatewayURL)
	if err != nil {
		return errorOutcome(models.InstrumentGooglePay, models.OutcomeError, err)
	}
	if fallback {
		logger.Warn().Str("link", link).Msg("order has no google pay link, using constructed settlement url")
	}

	walletCfg := d.settler.GetWalletConfig(ctx, attempt.Token, attempt.Order)
	environment := walletCfg.Environment
	if cfg.Environment != "" {
		environment = cfg.Environment
	}
	if cfg.MerchantGatewayID != "" {
		walletCfg.MerchantGatewayID = cfg.MerchantGatewayID
	}
	sheet := bridge.GooglePaySheet{
		WalletSheet: walletSheet(attempt.Order, walletCfg.MerchantInfo.MerchantName, cfg.CountryCode),
		Config:      *walletCfg,
		Environment: environment,
	}

	res, err := d.nativeCall(ctx, attempt, func(ctx context.Context) (bridge.NativeResult, error) {
		return d.native.GooglePay(ctx, attempt.Order, sheet)
	})
	if err != nil {
		return errorOutcome(models.InstrumentGooglePay, models.OutcomeError, err)
	}
	outcome, err := nativeOutcome(models.InstrumentGooglePay, bridge.OpGooglePay, res)
	outcome.DisplayAmount = sheet.TotalPrice
	if err != nil {
		return outcome, err
	}
	if res.Token == "" {
		outcome.Status = models.OutcomeFailed
		err = &NativeError{Op: bridge.OpGooglePay, Status: res.Status, Detail: "no wallet token returned"}
		outcome.Detail = err.Error()
		return outcome, err
	}
	outcome.WalletToken = res.Token

	if err := attempt.Transition(StateSettling); err != nil {
		return errorOutcome(models.InstrumentGooglePay, models.OutcomeError, err)
	}
	paymentToken, _ := attempt.Order.AuthorizationCode()
	payment, err := d.settler.SettlePayment(ctx, attempt.Token, link, gateway.WalletTokenPayload{
		Token:        res.Token,
		PaymentToken: paymentToken,
	})
	if err != nil {
		outcome.Status = models.OutcomeFailed
		outcome.Detail = err.Error()
		outcome.Payment = payment
		return outcome, ensureSettlementErr(err)
	}
	outcome.Payment = payment
	return outcome, nil
}

// savedCard settles directly against the order's saved-card link and then
// runs the 3-D Secure step-up. No wallet UI is shown.
func (d *Dispatcher) savedCard(ctx context.Context, attempt *Attempt, card *models.SavedCardRecord, cvv string) (models.PaymentOutcome, error) {
	if err := validateSavedCard(card); err != nil {
		return errorOutcome(models.InstrumentSavedCard, models.OutcomeError, err)
	}
	link, ok := attempt.Order.PaymentLink(models.RelSavedCard)
	if !ok {
		return errorOutcome(models.InstrumentSavedCard, models.OutcomeError,
			fmt.Errorf("%w: order has no %s link", ErrSettlementLinkUnavailable, models.RelSavedCard))
	}

	if err := attempt.Transition(StateSettling); err != nil {
		return errorOutcome(models.InstrumentSavedCard, models.OutcomeError, err)
	}
	payment, err := d.settler.SettlePayment(ctx, attempt.Token, link, gateway.SavedCardPayload{
		CardholderName: card.CardholderName,
		CardToken:      card.CardToken,
		Expiry:         card.Expiry,
		CVV:            cvv,
	})
	if err != nil {
		outcome, _ := errorOutcome(models.InstrumentSavedCard, models.OutcomeFailed, err)
		outcome.Payment = payment
		return outcome, ensureSettlementErr(err)
	}

	nctx, cancel := context.WithTimeout(ctx, d.cfg.NativeTimeout)
	defer cancel()
	res, err := d.native.ThreeDSTwo(nctx, payment)
	if err != nil {
		return errorOutcome(models.InstrumentSavedCard, models.OutcomeError, err)
	}
	outcome, err := nativeOutcome(models.InstrumentSavedCard, bridge.OpThreeDSTwo, res)
	outcome.Payment = payment
	return outcome, err
}

func (d *Dispatcher) nativeCall(ctx context.Context, attempt *Attempt, call func(context.Context) (bridge.NativeResult, error)) (bridge.NativeResult, error) {
	if err := attempt.Transition(StateInstrumentInFlight); err != nil {
		return bridge.NativeResult{}, err
	}
	nctx, cancel := context.WithTimeout(ctx, d.cfg.NativeTimeout)
	defer cancel()
	return call(nctx)
}

func walletSheet(order *models.Order, merchantName, countryCode string) bridge.WalletSheet {
	return bridge.WalletSheet{
		MerchantName: merchantName,
		CountryCode:  countryCode,
		CurrencyCode: order.Amount.CurrencyCode,
		TotalPrice:   FormatMinorUnits(order.Amount.Value),
	}
}

func ensureSettlementErr(err error) error {
	if errors.Is(err, gateway.ErrSettlement) {
		return err
	}
	return fmt.Errorf("%w: %w", gateway.ErrSettlement, err)
}

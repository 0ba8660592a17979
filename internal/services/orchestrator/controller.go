package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/bridge"
	"github.com/diogomassis/ngenius-bridge/internal/services/dispatcher"
	"github.com/diogomassis/ngenius-bridge/internal/services/platform"
)

var (
	ErrPaymentInFlight = errors.New("a payment is already in flight")
	ErrOrderCreation   = errors.New("order could not be created")
)

// User facing messages. Everything else goes to the logs.
const (
	MessageSuccess = "Payment successful"
	MessageFailure = "Payment failed"
)

// Phase texts shown while an action is running.
const (
	PhaseIdle               = ""
	PhaseCreatingOrder      = "Creating Order..."
	PhaseStartingSamsungPay = "Starting SamsungPay..."
)

type Gateway interface {
	CreateToken(ctx context.Context) (models.AccessToken, error)
	CreateOrder(ctx context.Context, token models.AccessToken, amount int64, savedCard *models.SavedCardRecord) (*models.Order, error)
	GetOrder(ctx context.Context, token models.AccessToken, orderReference string) (*models.Order, error)
}

type CardStore interface {
	Save(ctx context.Context, record models.SavedCardRecord) bool
	Load(ctx context.Context) *models.SavedCardRecord
	Clear(ctx context.Context)
}

type SDKConfigurer interface {
	ConfigureSDK(cfg bridge.SDKConfig)
}

type Config struct {
	HTTPTimeout     time.Duration
	SaveCardEnabled bool
	SDK             bridge.SDKConfig

	SamsungPay models.SamsungPayConfig
	ApplePay   models.ApplePayConfig
	GooglePay  models.GooglePayConfig
}

// PayRequest is one tap on a pay button.
type PayRequest struct {
	Instrument models.Instrument
	Amount     int64
	CVV        string
}

// Result is what the caller shows the user. Message is one of the two
// terminal messages; Outcome and Err carry the detail for diagnostics.
type Result struct {
	Message   string
	Success   bool
	Order     string
	Outcome   models.PaymentOutcome
	Err       error
	CardSaved bool
}

// Controller runs one payment action at a time.
type Controller struct {
	gateway  Gateway
	platform platform.Platform
	store    CardStore
	cfg      Config
	logger   zerolog.Logger

	inFlight atomic.Bool
	phase    atomic.Value

	mutex           sync.RWMutex
	saveCardEnabled bool
}

func NewController(gw Gateway, p platform.Platform, store CardStore, sdk SDKConfigurer, cfg Config, logger zerolog.Logger) *Controller {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}
	c := &Controller{
		gateway:         gw,
		platform:        p,
		store:           store,
		cfg:             cfg,
		logger:          logger,
		saveCardEnabled: cfg.SaveCardEnabled,
	}
	c.phase.Store(PhaseIdle)
	if sdk != nil {
		sdk.ConfigureSDK(cfg.SDK)
	}
	return c
}

func (c *Controller) InFlight() bool {
	return c.inFlight.Load()
}

func (c *Controller) Phase() string {
	return c.phase.Load().(string)
}

func (c *Controller) SaveCardEnabled() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.saveCardEnabled
}

func (c *Controller) SetSaveCardEnabled(enabled bool) {
	c.mutex.Lock()
	c.saveCardEnabled = enabled
	c.mutex.Unlock()
	c.logger.Info().Bool("enabled", enabled).Msg("save card mode changed")
}

func (c *Controller) SavedCard(ctx context.Context) *models.SavedCardRecord {
	return c.store.Load(ctx)
}

func (c *Controller) ForgetSavedCard(ctx context.Context) {
	c.store.Clear(ctx)
}

func (c *Controller) Wallets(ctx context.Context) models.WalletAvailability {
	return c.platform.Probe(ctx)
}

// Pay drives one action end to end. A call made while another is running
// returns ErrPaymentInFlight without touching the gateway.
func (c *Controller) Pay(ctx context.Context, req PayRequest) Result {
	if !c.inFlight.CompareAndSwap(false, true) {
		return Result{Message: MessageFailure, Err: ErrPaymentInFlight}
	}
	defer func() {
		c.phase.Store(PhaseIdle)
		c.inFlight.Store(false)
	}()

	attempt := dispatcher.NewAttempt()
	logger := c.logger.With().
		Str("attempt", attempt.ID).
		Str("instrument", string(req.Instrument)).
		Logger()

	if !req.Instrument.Valid() {
		return c.fail(logger, models.PaymentOutcome{Instrument: req.Instrument, Status: models.OutcomeNotSupported},
			fmt.Errorf("%w: %q", dispatcher.ErrInstrumentNotSupported, req.Instrument))
	}

	var savedCard *models.SavedCardRecord
	if c.usesSavedCard(req.Instrument) {
		savedCard = c.store.Load(ctx)
	}
	if req.Instrument == models.InstrumentSavedCard && savedCard == nil {
		reason := "no saved card on this device"
		if !c.SaveCardEnabled() {
			reason = "save card mode is disabled"
		}
		return c.fail(logger, models.PaymentOutcome{Instrument: req.Instrument, Status: models.OutcomeError},
			fmt.Errorf("%w: %s", dispatcher.ErrValidation, reason))
	}

	c.phase.Store(PhaseCreatingOrder)
	if err := c.createOrder(ctx, attempt, req.Amount, savedCard); err != nil {
		return c.fail(logger, models.PaymentOutcome{Instrument: req.Instrument, Status: models.OutcomeError}, err)
	}
	logger = logger.With().Str("order", attempt.Order.Reference).Logger()

	var (
		outcome models.PaymentOutcome
		err     error
	)
	if savedCard != nil {
		outcome, err = c.platform.Dispatch(ctx, attempt, models.NewSavedCardRequest(*savedCard, req.CVV))
	} else {
		if req.Instrument == models.InstrumentSamsungPay {
			c.phase.Store(PhaseStartingSamsungPay)
		}
		outcome, err = c.platform.Dispatch(ctx, attempt, c.instrumentRequest(req.Instrument))
	}
	if err != nil || !outcome.Succeeded() {
		if err == nil {
			err = fmt.Errorf("%w: %s", dispatcher.ErrNativeInstrument, outcome.Status)
		}
		res := c.fail(logger, outcome, err)
		res.Order = attempt.Order.Reference
		return res
	}

	res := Result{
		Message: MessageSuccess,
		Success: true,
		Order:   attempt.Order.Reference,
		Outcome: outcome,
	}
	if savedCard == nil && c.SaveCardEnabled() {
		res.CardSaved = c.saveCard(ctx, attempt, logger)
	}
	logger.Info().Str("amount", outcome.DisplayAmount).Bool("card_saved", res.CardSaved).Msg("payment completed")
	return res
}

// usesSavedCard reports whether a stored card may pay for this action. A
// stored card is never used while save card mode is off.
func (c *Controller) usesSavedCard(instrument models.Instrument) bool {
	switch instrument {
	case models.InstrumentCard, models.InstrumentSavedCard:
		return c.SaveCardEnabled()
	}
	return false
}

// createOrder aborts the attempt on any token or order failure; no
// instrument is touched in that case.
func (c *Controller) createOrder(ctx context.Context, attempt *dispatcher.Attempt, amount int64, savedCard *models.SavedCardRecord) error {
	hctx, cancel := context.WithTimeout(ctx, c.cfg.HTTPTimeout)
	defer cancel()

	token, err := c.gateway.CreateToken(hctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderCreation, err)
	}
	order, err := c.gateway.CreateOrder(hctx, token, amount, savedCard)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderCreation, err)
	}
	attempt.Token = token
	attempt.Order = order
	return attempt.Transition(dispatcher.StateOrderRequested)
}

// saveCard reads the tokenized card back from the order. Failures here
// never change the payment result.
func (c *Controller) saveCard(ctx context.Context, attempt *dispatcher.Attempt, logger zerolog.Logger) bool {
	hctx, cancel := context.WithTimeout(ctx, c.cfg.HTTPTimeout)
	defer cancel()

	order, err := c.gateway.GetOrder(hctx, attempt.Token, attempt.Order.Reference)
	if err != nil {
		logger.Warn().Err(err).Msg("could not re-fetch order for saved card")
		return false
	}
	card, ok := order.SavedCardFromPayments()
	if !ok {
		logger.Debug().Msg("order carries no saved card")
		return false
	}
	return c.store.Save(ctx, *card)
}

func (c *Controller) instrumentRequest(instrument models.Instrument) models.PaymentInstrumentRequest {
	switch instrument {
	case models.InstrumentSamsungPay:
		return models.NewSamsungPayRequest(c.cfg.SamsungPay)
	case models.InstrumentApplePay:
		return models.NewApplePayRequest(c.cfg.ApplePay)
	case models.InstrumentGooglePay:
		return models.NewGooglePayRequest(c.cfg.GooglePay)
	}
	return models.NewCardRequest()
}

func (c *Controller) fail(logger zerolog.Logger, outcome models.PaymentOutcome, err error) Result {
	if outcome.Detail == "" && err != nil {
		outcome.Detail = err.Error()
	}
	logger.Error().Err(err).Str("status", string(outcome.Status)).Msg("payment failed")
	return Result{Message: MessageFailure, Outcome: outcome, Err: err}
}

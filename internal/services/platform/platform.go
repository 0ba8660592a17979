package platform

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/dispatcher"
)

// Platform is the per-OS behaviour: which wallets can be probed and which
// instruments can be dispatched. One implementation is chosen at startup.
type Platform interface {
	Name() models.Platform
	Probe(ctx context.Context) models.WalletAvailability
	Dispatch(ctx context.Context, attempt *dispatcher.Attempt, req models.PaymentInstrumentRequest) (models.PaymentOutcome, error)
}

type Capabilities interface {
	SamsungPayEnabled(ctx context.Context, serviceID string) (bool, error)
	ApplePaySupported(ctx context.Context) (bool, error)
	GooglePaySupported(ctx context.Context) (bool, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, attempt *dispatcher.Attempt, req models.PaymentInstrumentRequest) (models.PaymentOutcome, error)
}

type Config struct {
	SamsungPayServiceID string
	ProbeTimeout        time.Duration
}

// New selects the implementation for name ("android" or "ios").
func New(name string, caps Capabilities, d Dispatcher, cfg Config, logger zerolog.Logger) (Platform, error) {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	base := base{
		caps:       caps,
		dispatcher: d,
		cfg:        cfg,
		cache:      &availabilityCache{},
	}

	switch models.Platform(strings.ToLower(name)) {
	case models.PlatformAndroid:
		base.logger = logger.With().Str("platform", string(models.PlatformAndroid)).Logger()
		return &android{base: base}, nil
	case models.PlatformIOS:
		base.logger = logger.With().Str("platform", string(models.PlatformIOS)).Logger()
		return &ios{base: base}, nil
	}
	return nil, fmt.Errorf("unsupported platform %q", name)
}

type check struct {
	name string
	run  func(ctx context.Context) (bool, error)
	set  func(*models.WalletAvailability, bool)
}

type base struct {
	caps       Capabilities
	dispatcher Dispatcher
	cfg        Config
	cache      *availabilityCache
	logger     zerolog.Logger
}

// probe runs every check on its own; a failing check only marks its own
// wallet unavailable.
func (b *base) probe(ctx context.Context, p models.Platform, checks []check) models.WalletAvailability {
	return b.cache.get(func() (models.WalletAvailability, bool) {
		availability := models.WalletAvailability{Platform: p}
		for _, c := range checks {
			supported, err := b.runCheck(ctx, c)
			if err != nil {
				b.logger.Warn().Err(err).Str("wallet", c.name).Msg("capability check failed, marking unavailable")
				supported = false
			}
			c.set(&availability, supported)
		}
		b.logger.Info().
			Bool("samsung_pay", availability.SamsungPay).
			Bool("apple_pay", availability.ApplePay).
			Bool("google_pay", availability.GooglePay).
			Msg("wallet availability computed")
		// A probe cut short by the caller is not kept for the session.
		return availability, ctx.Err() == nil
	})
}

func (b *base) runCheck(ctx context.Context, c check) (supported bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			supported, err = false, fmt.Errorf("%s check panicked: %v", c.name, r)
		}
	}()
	cctx, cancel := context.WithTimeout(ctx, b.cfg.ProbeTimeout)
	defer cancel()
	return c.run(cctx)
}

func (b *base) dispatch(ctx context.Context, p Platform, supported []models.Instrument, attempt *dispatcher.Attempt, req models.PaymentInstrumentRequest) (models.PaymentOutcome, error) {
	if !contains(supported, req.Instrument) {
		return notSupported(attempt, req, fmt.Errorf("%w: %s on %s", dispatcher.ErrInstrumentNotSupported, req.Instrument, p.Name()))
	}
	if !p.Probe(ctx).Supports(req.Instrument) {
		return notSupported(attempt, req, fmt.Errorf("%w: %s is not available on this device", dispatcher.ErrInstrumentNotSupported, req.Instrument))
	}
	return b.dispatcher.Dispatch(ctx, attempt, req)
}

func notSupported(attempt *dispatcher.Attempt, req models.PaymentInstrumentRequest, err error) (models.PaymentOutcome, error) {
	if attempt != nil {
		_ = attempt.Transition(dispatcher.StateResolved)
	}
	return models.PaymentOutcome{Instrument: req.Instrument, Status: models.OutcomeNotSupported, Detail: err.Error()}, err
}

func contains(list []models.Instrument, i models.Instrument) bool {
	for _, v := range list {
		if v == i {
			return true
		}
	}
	return false
}

// availabilityCache holds the probe result for the lifetime of the process.
// It is filled lazily on first use and never invalidated. Concurrent first
// callers share one round of capability checks. A round cut short by its
// caller's context is not handed to the callers that joined it; they run
// their own.
type availabilityCache struct {
	mutex  sync.RWMutex
	value  *models.WalletAvailability
	flight singleflight.Group
}

type probeResult struct {
	availability models.WalletAvailability
	keep         bool
}

func (c *availabilityCache) get(compute func() (models.WalletAvailability, bool)) models.WalletAvailability {
	for {
		if v, ok := c.load(); ok {
			return v
		}

		ran := false
		v, _, _ := c.flight.Do("probe", func() (any, error) {
			ran = true
			if cached, ok := c.load(); ok {
				return probeResult{availability: cached, keep: true}, nil
			}
			availability, keep := compute()
			if keep {
				c.store(availability)
			}
			return probeResult{availability: availability, keep: keep}, nil
		})
		res := v.(probeResult)
		if res.keep || ran {
			return res.availability
		}
	}
}

func (c *availabilityCache) load() (models.WalletAvailability, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if c.value == nil {
		return models.WalletAvailability{}, false
	}
	return *c.value, true
}

func (c *availabilityCache) store(v models.WalletAvailability) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.value = &v
}

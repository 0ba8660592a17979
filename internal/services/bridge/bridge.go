package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/diogomassis/ngenius-bridge/internal/models"
)

const (
	OpCardPayment = "initiateCardPaymentUI"
	OpSamsungPay  = "initiateSamsungPay"
	OpApplePay    = "initiateApplePay"
	OpGooglePay   = "initiateGooglePay"
	OpThreeDSTwo  = "executeThreeDSTwo"
)

type capability struct {
	supported bool
	err       error
}

// Bridge turns the callback-based Native API into blocking calls bounded by
// a context.
type Bridge struct {
	native Native
	logger zerolog.Logger

	deviceOnce sync.Once
	device     models.DeviceInfo
	deviceErr  error
}

func New(native Native, logger zerolog.Logger) *Bridge {
	return &Bridge{native: native, logger: logger}
}

func (b *Bridge) ConfigureSDK(cfg SDKConfig) {
	b.native.ConfigureSDK(cfg)
}

// DeviceInfo is looked up once per process; it is static per install.
func (b *Bridge) DeviceInfo() (models.DeviceInfo, error) {
	b.deviceOnce.Do(func() {
		b.device, b.deviceErr = b.native.GetDeviceInfo()
	})
	return b.device, b.deviceErr
}

func (b *Bridge) CardPayment(ctx context.Context, order *models.Order) (NativeResult, error) {
	return b.call(ctx, OpCardPayment, func(done ResultFunc) {
		b.native.InitiateCardPaymentUI(order, done)
	})
}

func (b *Bridge) SamsungPay(ctx context.Context, order *models.Order, merchantName, serviceID string) (NativeResult, error) {
	return b.call(ctx, OpSamsungPay, func(done ResultFunc) {
		b.native.InitiateSamsungPay(order, merchantName, serviceID, done)
	})
}

func (b *Bridge) ApplePay(ctx context.Context, order *models.Order, sheet ApplePaySheet) (NativeResult, error) {
	return b.call(ctx, OpApplePay, func(done ResultFunc) {
		b.native.InitiateApplePay(order, sheet, done)
	})
}

func (b *Bridge) GooglePay(ctx context.Context, order *models.Order, sheet GooglePaySheet) (NativeResult, error) {
	return b.call(ctx, OpGooglePay, func(done ResultFunc) {
		b.native.InitiateGooglePay(order, sheet, done)
	})
}

func (b *Bridge) ThreeDSTwo(ctx context.Context, payment *models.PaymentResult) (NativeResult, error) {
	return b.call(ctx, OpThreeDSTwo, func(done ResultFunc) {
		b.native.ExecuteThreeDSTwo(payment, done)
	})
}

func (b *Bridge) SamsungPayEnabled(ctx context.Context, serviceID string) (bool, error) {
	return b.probe(ctx, func(done CapabilityFunc) { b.native.IsSamsungPayEnabled(serviceID, done) })
}

func (b *Bridge) ApplePaySupported(ctx context.Context) (bool, error) {
	return b.probe(ctx, b.native.IsApplePaySupported)
}

func (b *Bridge) GooglePaySupported(ctx context.Context) (bool, error) {
	return b.probe(ctx, b.native.IsGooglePaySupported)
}

func (b *Bridge) call(ctx context.Context, op string, start func(ResultFunc)) (res NativeResult, err error) {
	f := newFuture[NativeResult]()
	if err := invoke(func() {
		start(func(r NativeResult) {
			if !f.resolve(r) {
				b.logger.Warn().Str("op", op).Str("status", r.Status).Msg("dropping duplicate native callback")
			}
		})
	}); err != nil {
		return NativeResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err = f.await(ctx)
	if err != nil {
		if c, ok := b.native.(Canceller); ok && c.CancelPending(op) {
			b.logger.Info().Str("op", op).Msg("cancelled pending native call")
		} else {
			b.logger.Warn().Str("op", op).Msg("native call abandoned, a late result will be dropped")
		}
		return NativeResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (b *Bridge) probe(ctx context.Context, start func(CapabilityFunc)) (bool, error) {
	f := newFuture[capability]()
	if err := invoke(func() {
		start(func(supported bool, err error) {
			f.resolve(capability{supported: supported, err: err})
		})
	}); err != nil {
		return false, err
	}
	c, err := f.await(ctx)
	if err != nil {
		return false, err
	}
	return c.supported, c.err
}

// invoke converts a panic in the native layer into an error.
func invoke(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("native module panicked: %v", r)
		}
	}()
	fn()
	return nil
}

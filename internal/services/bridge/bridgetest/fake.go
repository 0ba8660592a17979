package bridgetest

import (
	"sync"

	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/bridge"
)

var _ bridge.Native = (*FakeNative)(nil)

// FakeNative is a bridge.Native whose behaviour is injected per method. Unset
// methods report "Failed" or unsupported. Calls are counted per op.
type FakeNative struct {
	ConfigureSDKFunc          func(cfg bridge.SDKConfig)
	GetDeviceInfoFunc         func() (models.DeviceInfo, error)
	InitiateCardPaymentUIFunc func(order *models.Order) bridge.NativeResult
	InitiateSamsungPayFunc    func(order *models.Order, merchantName, serviceID string) bridge.NativeResult
	InitiateApplePayFunc      func(order *models.Order, sheet bridge.ApplePaySheet) bridge.NativeResult
	InitiateGooglePayFunc     func(order *models.Order, sheet bridge.GooglePaySheet) bridge.NativeResult
	ExecuteThreeDSTwoFunc     func(payment *models.PaymentResult) bridge.NativeResult
	IsSamsungPayEnabledFunc   func(serviceID string) (bool, error)
	IsApplePaySupportedFunc   func() (bool, error)
	IsGooglePaySupportedFunc  func() (bool, error)

	mutex sync.Mutex
	calls map[string]int
}

func (f *FakeNative) Calls(op string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls[op]
}

func (f *FakeNative) record(op string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

func (f *FakeNative) ConfigureSDK(cfg bridge.SDKConfig) {
	f.record("configureSDK")
	if f.ConfigureSDKFunc != nil {
		f.ConfigureSDKFunc(cfg)
	}
}

func (f *FakeNative) GetDeviceInfo() (models.DeviceInfo, error) {
	f.record("getDeviceInfo")
	if f.GetDeviceInfoFunc != nil {
		return f.GetDeviceInfoFunc()
	}
	return models.DeviceInfo{}, nil
}

func (f *FakeNative) InitiateCardPaymentUI(order *models.Order, done bridge.ResultFunc) {
	f.record(bridge.OpCardPayment)
	done(f.result(f.InitiateCardPaymentUIFunc != nil, func() bridge.NativeResult { return f.InitiateCardPaymentUIFunc(order) }))
}

func (f *FakeNative) InitiateSamsungPay(order *models.Order, merchantName, serviceID string, done bridge.ResultFunc) {
	f.record(bridge.OpSamsungPay)
	done(f.result(f.InitiateSamsungPayFunc != nil, func() bridge.NativeResult {
		return f.InitiateSamsungPayFunc(order, merchantName, serviceID)
	}))
}

func (f *FakeNative) InitiateApplePay(order *models.Order, sheet bridge.ApplePaySheet, done bridge.ResultFunc) {
	f.record(bridge.OpApplePay)
	done(f.result(f.InitiateApplePayFunc != nil, func() bridge.NativeResult { return f.InitiateApplePayFunc(order, sheet) }))
}

func (f *FakeNative) InitiateGooglePay(order *models.Order, sheet bridge.GooglePaySheet, done bridge.ResultFunc) {
	f.record(bridge.OpGooglePay)
	done(f.result(f.InitiateGooglePayFunc != nil, func() bridge.NativeResult { return f.InitiateGooglePayFunc(order, sheet) }))
}

func (f *FakeNative) ExecuteThreeDSTwo(payment *models.PaymentResult, done bridge.ResultFunc) {
	f.record(bridge.OpThreeDSTwo)
	done(f.result(f.ExecuteThreeDSTwoFunc != nil, func() bridge.NativeResult { return f.ExecuteThreeDSTwoFunc(payment) }))
}

func (f *FakeNative) IsSamsungPayEnabled(serviceID string, done bridge.CapabilityFunc) {
	f.record("isSamsungPayEnabled")
	if f.IsSamsungPayEnabledFunc == nil {
		done(false, nil)
		return
	}
	done(f.IsSamsungPayEnabledFunc(serviceID))
}

func (f *FakeNative) IsApplePaySupported(done bridge.CapabilityFunc) {
	f.record("isApplePaySupported")
	if f.IsApplePaySupportedFunc == nil {
		done(false, nil)
		return
	}
	done(f.IsApplePaySupportedFunc())
}

func (f *FakeNative) IsGooglePaySupported(done bridge.CapabilityFunc) {
	f.record("isGooglePaySupported")
	if f.IsGooglePaySupportedFunc == nil {
		done(false, nil)
		return
	}
	done(f.IsGooglePaySupportedFunc())
}

func (f *FakeNative) result(set bool, fn func() bridge.NativeResult) bridge.NativeResult {
	if !set {
		return bridge.NativeResult{Status: bridge.StatusFailed}
	}
	return fn()
}

package bridge

import "github.com/diogomassis/ngenius-bridge/internal/models"

// Native status strings reported by the platform payment modules.
const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
	StatusAborted = "Aborted"
)

// NativeResult is what a native module passes to its completion callback.
type NativeResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Token  string `json:"token,omitempty"`
}

type SDKConfig struct {
	Language              string `json:"language,omitempty"`
	ShouldShowOrderAmount *bool  `json:"shouldShowOrderAmount,omitempty"`
}

// WalletSheet is the display data handed to a wallet sheet.
type WalletSheet struct {
	MerchantName string `json:"merchantName"`
	CountryCode  string `json:"countryCode"`
	CurrencyCode string `json:"currencyCode"`
	TotalPrice   string `json:"totalPrice"`
}

type ApplePaySheet struct {
	WalletSheet
	Config models.ApplePayConfig `json:"config"`
}

type GooglePaySheet struct {
	WalletSheet
	Config      models.WalletConfig `json:"config"`
	Environment string              `json:"environment"`
}

type ResultFunc func(NativeResult)

type CapabilityFunc func(supported bool, err error)

// Native is the callback surface exposed by the platform payment modules.
// Implementations may invoke a callback more than once or never; Bridge
// guards against both.
type Native interface {
	ConfigureSDK(cfg SDKConfig)
	GetDeviceInfo() (models.DeviceInfo, error)

	InitiateCardPaymentUI(order *models.Order, done ResultFunc)
	InitiateSamsungPay(order *models.Order, merchantName, serviceID string, done ResultFunc)
	InitiateApplePay(order *models.Order, sheet ApplePaySheet, done ResultFunc)
	InitiateGooglePay(order *models.Order, sheet GooglePaySheet, done ResultFunc)
	ExecuteThreeDSTwo(payment *models.PaymentResult, done ResultFunc)

	IsSamsungPayEnabled(serviceID string, done CapabilityFunc)
	IsApplePaySupported(done CapabilityFunc)
	IsGooglePaySupported(done CapabilityFunc)
}

// Canceller is implemented by native layers that can dismiss a pending UI.
// Wallet sheets generally cannot be dismissed once shown.
type Canceller interface {
	CancelPending(op string) bool
}

package models

import jsoniter "github.com/json-iterator/go"

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// WalletAvailability holds the capability flags computed once per session.
type WalletAvailability struct {
	Platform   Platform `json:"platform"`
	SamsungPay bool     `json:"samsungPay"`
	ApplePay   bool     `json:"applePay"`
	GooglePay  bool     `json:"googlePay"`
}

func (w WalletAvailability) Supports(instrument Instrument) bool {
	switch instrument {
	case InstrumentCard, InstrumentSavedCard:
		return true
	case InstrumentSamsungPay:
		return w.SamsungPay
	case InstrumentApplePay:
		return w.ApplePay
	case InstrumentGooglePay:
		return w.GooglePay
	}
	return false
}

type MerchantInfo struct {
	MerchantName string `json:"merchantName,omitempty"`
	MerchantID   string `json:"merchantId,omitempty"`
}

// WalletConfig carries the merchant/gateway parameters needed to open a
// wallet sheet.
type WalletConfig struct {
	AllowedPaymentMethods jsoniter.RawMessage `json:"allowedPaymentMethods,omitempty"`
	GatewayName           string              `json:"gatewayName"`
	Environment           string              `json:"environment"`
	MerchantInfo          MerchantInfo        `json:"merchantInfo"`
	MerchantGatewayID     string              `json:"merchantGatewayId"`
	MerchantOrigin        string              `json:"merchantOrigin,omitempty"`
	Fallback              bool                `json:"-"`
}

type DeviceInfo struct {
	Platform   Platform `json:"platform"`
	OSVersion  string   `json:"osVersion"`
	Model      string   `json:"model"`
	SDKVersion string   `json:"sdkVersion"`
	DeviceID   string   `json:"deviceId"`
}

package models

type Instrument string

const (
	InstrumentCard       Instrument = "card"
	InstrumentSamsungPay Instrument = "samsung_pay"
	InstrumentApplePay   Instrument = "apple_pay"
	InstrumentGooglePay  Instrument = "google_pay"
	InstrumentSavedCard  Instrument = "saved_card"
)

func (i Instrument) Valid() bool {
	switch i {
	case InstrumentCard, InstrumentSamsungPay, InstrumentApplePay, InstrumentGooglePay, InstrumentSavedCard:
		return true
	}
	return false
}

type SamsungPayConfig struct {
	MerchantName string `json:"merchantName"`
	ServiceID    string `json:"serviceId"`
}

type ApplePayConfig struct {
	MerchantIdentifier    string   `json:"merchantIdentifier"`
	MerchantName          string   `json:"merchantName"`
	CountryCode           string   `json:"countryCode"`
	MerchantCapabilities  []string `json:"merchantCapabilities,omitempty"`
	BillingContactFields  []string `json:"billingContactFields,omitempty"`
	ShippingContactFields []string `json:"shippingContactFields,omitempty"`
}

const (
	MerchantCapabilityDebit   = "DEBIT"
	MerchantCapabilityCredit  = "CREDIT"
	MerchantCapabilityThreeDS = "THREE_DS"

	ContactFieldPostalAddress = "POSTAL_ADDRESS"
	ContactFieldEmailAddress  = "EMAIL_ADDRESS"
	ContactFieldPhoneNumber   = "PHONE_NUMBER"
	ContactFieldName          = "NAME"
)

type GooglePayConfig struct {
	CountryCode       string `json:"countryCode"`
	MerchantGatewayID string `json:"merchantGatewayId,omitempty"`
	Environment       string `json:"environment,omitempty"`
}

// PaymentInstrumentRequest is the user's choice of how to pay for one
// checkout attempt. Instrument selects which of the config fields applies.
type PaymentInstrumentRequest struct {
	Instrument Instrument
	SamsungPay *SamsungPayConfig
	ApplePay   *ApplePayConfig
	GooglePay  *GooglePayConfig
	SavedCard  *SavedCardRecord
	CVV        string
}

func NewCardRequest() PaymentInstrumentRequest {
	return PaymentInstrumentRequest{Instrument: InstrumentCard}
}

func NewSamsungPayRequest(cfg SamsungPayConfig) PaymentInstrumentRequest {
	return PaymentInstrumentRequest{Instrument: InstrumentSamsungPay, SamsungPay: &cfg}
}

func NewApplePayRequest(cfg ApplePayConfig) PaymentInstrumentRequest {
	return PaymentInstrumentRequest{Instrument: InstrumentApplePay, ApplePay: &cfg}
}

func NewGooglePayRequest(cfg GooglePayConfig) PaymentInstrumentRequest {
	return PaymentInstrumentRequest{Instrument: InstrumentGooglePay, GooglePay: &cfg}
}

func NewSavedCardRequest(card SavedCardRecord, cvv string) PaymentInstrumentRequest {
	return PaymentInstrumentRequest{Instrument: InstrumentSavedCard, SavedCard: &card, CVV: cvv}
}

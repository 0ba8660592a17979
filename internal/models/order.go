package models

import (
	"net/url"
	"strings"
)

const (
	RelSelf                 = "self"
	RelPayment              = "payment"
	RelPaymentAuthorization = "payment-authorization"
	RelSavedCard            = "payment:saved-card"
	RelGooglePay            = "payment:google_pay"
	RelSamsungPay           = "payment:samsung_pay"
	RelApplePay             = "payment:apple_pay"
	Rel3DS2Authentication   = "cnp:3ds2-authentication"
	Rel3DS2ChallengeResp    = "cnp:3ds2-challenge-response"
)

type Link struct {
	Href string `json:"href"`
}

// Links is a HAL link set keyed by relation name.
type Links map[string]Link

func (l Links) Href(rel string) (string, bool) {
	link, ok := l[rel]
	if !ok || strings.TrimSpace(link.Href) == "" {
		return "", false
	}
	return link.Href, true
}

// Amount is always expressed in minor currency units.
type Amount struct {
	CurrencyCode string `json:"currencyCode"`
	Value        int64  `json:"value"`
}

type PaymentMethods struct {
	Card   []string `json:"card,omitempty"`
	Wallet []string `json:"wallet,omitempty"`
}

type ThreeDS2 struct {
	MessageVersion       string `json:"messageVersion,omitempty"`
	ThreeDSMethodURL     string `json:"threeDSMethodURL,omitempty"`
	ThreeDSServerTransID string `json:"threeDSServerTransID,omitempty"`
	DirectoryServerID    string `json:"directoryServerID,omitempty"`
}

// PaymentResult is a gateway payment resource. It appears embedded in an
// order and is returned by settlement calls.
type PaymentResult struct {
	ID                 string           `json:"_id,omitempty"`
	Reference          string           `json:"reference,omitempty"`
	State              string           `json:"state,omitempty"`
	OrderReference     string           `json:"orderReference,omitempty"`
	OutletID           string           `json:"outletId,omitempty"`
	AuthenticationCode string           `json:"authenticationCode,omitempty"`
	Amount             *Amount          `json:"amount,omitempty"`
	SavedCard          *SavedCardRecord `json:"savedCard,omitempty"`
	ThreeDS2           *ThreeDS2        `json:"3ds2,omitempty"`
	Links              Links            `json:"_links,omitempty"`
}

const (
	PaymentStateStarted    = "STARTED"
	PaymentStateAwait3DS   = "AWAIT_3DS"
	PaymentStateAuthorised = "AUTHORISED"
	PaymentStateCaptured   = "CAPTURED"
	PaymentStatePurchased  = "PURCHASED"
	PaymentStateFailed     = "FAILED"
)

// Declined reports whether the gateway already rejected the payment.
func (p *PaymentResult) Declined() bool {
	return strings.EqualFold(p.State, PaymentStateFailed)
}

type Embedded struct {
	Payment []PaymentResult `json:"payment,omitempty"`
}

type Order struct {
	ID             string           `json:"_id,omitempty"`
	Reference      string           `json:"reference"`
	OutletID       string           `json:"outletId,omitempty"`
	Action         string           `json:"action,omitempty"`
	Amount         Amount           `json:"amount"`
	PaymentMethods PaymentMethods   `json:"paymentMethods"`
	SavedCard      *SavedCardRecord `json:"savedCard,omitempty"`
	Links          Links            `json:"_links,omitempty"`
	Embedded       Embedded         `json:"_embedded"`
}

func (o *Order) FirstPayment() (*PaymentResult, bool) {
	if len(o.Embedded.Payment) == 0 {
		return nil, false
	}
	return &o.Embedded.Payment[0], true
}

// PaymentLink returns a relation from the first embedded payment.
func (o *Order) PaymentLink(rel string) (string, bool) {
	p, ok := o.FirstPayment()
	if !ok {
		return "", false
	}
	return p.Links.Href(rel)
}

// AuthorizationCode is the "code" query parameter of the order's payment
// link, used by the card entry UI and as the paypage payment token.
func (o *Order) AuthorizationCode() (string, bool) {
	href, ok := o.Links.Href(RelPayment)
	if !ok {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	code := u.Query().Get("code")
	return code, code != ""
}

// SavedCardFromPayments returns the tokenized card the gateway attached to
// the order or to one of its payments.
func (o *Order) SavedCardFromPayments() (*SavedCardRecord, bool) {
	if o.SavedCard != nil && o.SavedCard.CardToken != "" {
		return o.SavedCard, true
	}
	for i := range o.Embedded.Payment {
		if sc := o.Embedded.Payment[i].SavedCard; sc != nil && sc.CardToken != "" {
			return sc, true
		}
	}
	return nil, false
}

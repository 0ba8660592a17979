package dto

type PaymentRequest struct {
	Amount int64  `json:"amount"`
	CVV    string `json:"cvv,omitempty"`
}

// PaymentResponse only carries the user facing result.
type PaymentResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Order   string `json:"order,omitempty"`
	Amount  string `json:"amount,omitempty"`
}

type SavedCardResponse struct {
	CardholderName string `json:"cardholderName"`
	MaskedPan      string `json:"maskedPan"`
	ValidUpto      string `json:"validUpto"`
	Scheme         string `json:"scheme"`
}

type SaveCardModeRequest struct {
	Enabled *bool `json:"enabled"`
}

type SaveCardModeResponse struct {
	Enabled bool `json:"enabled"`
}

type StatusResponse struct {
	InFlight bool   `json:"inFlight"`
	Phase    string `json:"phase"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

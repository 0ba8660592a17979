package models

type OutcomeStatus string

const (
	OutcomeSuccess      OutcomeStatus = "Success"
	OutcomeFailed       OutcomeStatus = "Failed"
	OutcomeAborted      OutcomeStatus = "Aborted"
	OutcomeNotSupported OutcomeStatus = "NotSupported"
	OutcomeError        OutcomeStatus = "Error"
)

// PaymentOutcome is the terminal result of one instrument attempt.
type PaymentOutcome struct {
	Instrument    Instrument     `json:"instrument"`
	Status        OutcomeStatus  `json:"status"`
	Detail        string         `json:"detail,omitempty"`
	DisplayAmount string         `json:"displayAmount,omitempty"`
	WalletToken   string         `json:"-"`
	Payment       *PaymentResult `json:"payment,omitempty"`
}

func (o PaymentOutcome) Succeeded() bool {
	return o.Status == OutcomeSuccess
}

package dispatcher

import (
	"fmt"

	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/bridge"
)

// NormalizeStatus maps a native status string onto the closed outcome set.
// Anything unrecognized is a failure.
func NormalizeStatus(status string) models.OutcomeStatus {
	switch status {
	case bridge.StatusSuccess:
		return models.OutcomeSuccess
	case bridge.StatusAborted:
		return models.OutcomeAborted
	case bridge.StatusFailed:
		return models.OutcomeFailed
	default:
		return models.OutcomeFailed
	}
}

func nativeOutcome(instrument models.Instrument, op string, res bridge.NativeResult) (models.PaymentOutcome, error) {
	outcome := models.PaymentOutcome{
		Instrument: instrument,
		Status:     NormalizeStatus(res.Status),
		Detail:     res.Error,
	}
	if outcome.Status == models.OutcomeSuccess {
		return outcome, nil
	}
	return outcome, &NativeError{Op: op, Status: res.Status, Detail: res.Error}
}

func errorOutcome(instrument models.Instrument, status models.OutcomeStatus, err error) (models.PaymentOutcome, error) {
	return models.PaymentOutcome{Instrument: instrument, Status: status, Detail: err.Error()}, err
}

// FormatMinorUnits renders minor units with two decimals, e.g. 30 -> "0.30".
func FormatMinorUnits(value int64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	return fmt.Sprintf("%s%d.%02d", sign, value/100, value%100)
}

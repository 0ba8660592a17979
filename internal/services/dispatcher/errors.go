package dispatcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diogomassis/ngenius-bridge/internal/models"
)

var (
	ErrValidation                = errors.New("invalid payment instrument request")
	ErrNativeInstrument          = errors.New("native payment instrument did not succeed")
	ErrInstrumentNotSupported    = errors.New("payment instrument is not supported")
	ErrSettlementLinkUnavailable = errors.New("settlement link unavailable")
	ErrOrderNotReady             = errors.New("order is not ready for dispatch")
)

// ValidationError lists the required fields missing from a request. It is
// raised before any native call is made.
type ValidationError struct {
	Instrument models.Instrument
	Missing    []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Instrument, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NativeError carries the status a native module reported.
type NativeError struct {
	Op     string
	Status string
	Detail string
}

func (e *NativeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s reported %q", e.Op, e.Status)
	}
	return fmt.Sprintf("%s reported %q: %s", e.Op, e.Status, e.Detail)
}

func (e *NativeError) Is(target error) bool {
	return target == ErrNativeInstrument
}

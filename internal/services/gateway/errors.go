package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrAuth       = errors.New("gateway authentication failed")
	ErrGateway    = errors.New("gateway returned an error response")
	ErrTransport  = errors.New("gateway transport failure")
	ErrSettlement = errors.New("payment settlement failed")
)

// StatusError is a non-2xx gateway response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: gateway returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: gateway returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrGateway
}

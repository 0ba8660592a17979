package models

import "time"

// AccessToken is a short-lived bearer credential. It is never persisted.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

func (t AccessToken) String() string {
	return "[redacted]"
}

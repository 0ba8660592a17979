package models

import (
	"fmt"
	"strings"
	"unicode"
)

// SavedCardRecord is the tokenized card kept on the device for repeat
// payments. Only one record exists at a time.
type SavedCardRecord struct {
	CardholderName string `json:"cardholderName"`
	MaskedPan      string `json:"maskedPan"`
	Expiry         string `json:"expiry"`
	Scheme         string `json:"scheme"`
	CardToken      string `json:"cardToken"`
	RecaptureCsc   bool   `json:"recaptureCsc,omitempty"`
}

func (s *SavedCardRecord) SchemeLabel() string {
	if s.Scheme == "" {
		return ""
	}
	r := []rune(strings.ToLower(s.Scheme))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func (s *SavedCardRecord) ValidUpto() string {
	return fmt.Sprintf("Valid upto: %s", s.Expiry)
}

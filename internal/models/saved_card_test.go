package models

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSavedCardRecord_SchemeLabel(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"VISA", "Visa"},
		{"mastercard", "Mastercard"},
		{"AMEX", "Amex"},
		{"élo", "Élo"},
		{"ÉLO", "Élo"},
		{"银联", "银联"},
	}
	for _, tc := range cases {
		got := (&SavedCardRecord{Scheme: tc.in}).SchemeLabel()
		require.Equal(t, tc.want, got, tc.in)
		require.True(t, utf8.ValidString(got), tc.in)
	}
}

func TestSavedCardRecord_ValidUpto(t *testing.T) {
	require.Equal(t, "Valid upto: 2030-01", (&SavedCardRecord{Expiry: "2030-01"}).ValidUpto())
}

package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Money is held as int64 minor units everywhere inside the engine.
// Decimal conversion happens only at the boundary, in these helpers, so
// no floating point ever touches a balance.

// ParseAmount converts a user-supplied decimal string such as "123.45"
// into minor units. Anything that is not a number with at most two
// decimal places is rejected.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	minor := d.Shift(2)
	if !minor.IsInteger() {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}

// FormatAmount renders minor units for display with the fixed currency
// prefix, e.g. 12345 -> "R123.45".
func FormatAmount(minor int64) string {
	return "R" + decimal.NewFromInt(minor).Shift(-2).StringFixed(2)
}

// ParseAccountID parses an account number string. Malformed input is a
// distinct error from a well-formed id that happens not to exist, so the
// boundary can tell the two apart.
func ParseAccountID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id < AccountIDMin || id > AccountIDMax {
		return 0, ErrInvalidAccountID
	}
	return id, nil
}

// FormatAccountID renders an account number for display and persistence.
func FormatAccountID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// Valid account numbers are exactly 10 digits.
const (
	AccountIDMin uint64 = 1_000_000_000
	AccountIDMax uint64 = 9_999_999_999
)

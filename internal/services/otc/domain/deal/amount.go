package deal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmount is the largest value representable as an unsigned 128-bit integer.
var maxAmount = decimal.RequireFromString("340282366920938463463374607431768211455")

// Amount is a non-negative integer quantity of one denomination, bounded by
// the unsigned 128-bit range. The zero value is zero.
type Amount struct {
	value decimal.Decimal
}

// ZeroAmount is the additive identity.
var ZeroAmount = Amount{}

// maxAmountDigits is the digit count of maxAmount.
const maxAmountDigits = 39

// ParseAmount parses a base-10 integer string. Only ASCII digits are
// accepted, so exponent and fraction forms never reach decimal.
func ParseAmount(raw string) (Amount, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Amount{}, fmt.Errorf("amount is required")
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] < '0' || trimmed[i] > '9' {
			return Amount{}, fmt.Errorf("amount %q is not a base-10 integer", AmountPreview(trimmed))
		}
	}
	digits := strings.TrimLeft(trimmed, "0")
	if digits == "" {
		return Amount{}, nil
	}
	if len(digits) > maxAmountDigits {
		return Amount{}, fmt.Errorf("amount with %d digits exceeds the 128-bit range", len(digits))
	}
	value, err := decimal.NewFromString(digits)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", AmountPreview(trimmed), err)
	}
	return newAmount(value)
}

// AmountPreview shortens raw amount input for error messages and metadata.
func AmountPreview(raw string) string {
	const limit = 48
	if len(raw) <= limit {
		return raw
	}
	return raw[:limit] + "..."
}

// MustAmount parses raw and panics on failure. Intended for constants and tests.
func MustAmount(raw string) Amount {
	amount, err := ParseAmount(raw)
	if err != nil {
		panic(err)
	}
	return amount
}

// NewAmount builds an Amount from a non-negative int64.
func NewAmount(value int64) (Amount, error) {
	return newAmount(decimal.NewFromInt(value))
}

func newAmount(value decimal.Decimal) (Amount, error) {
	if !value.IsInteger() {
		return Amount{}, fmt.Errorf("amount %s is not an integer", value.String())
	}
	if value.Sign() < 0 {
		return Amount{}, fmt.Errorf("amount %s is negative", value.String())
	}
	if value.Cmp(maxAmount) > 0 {
		return Amount{}, fmt.Errorf("amount %s exceeds the 128-bit range", value.String())
	}
	return Amount{value: value}, nil
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.value.Sign() == 0
}

// IsPositive reports whether the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.value.Sign() > 0
}

// Equal reports exact integer equality.
func (a Amount) Equal(other Amount) bool {
	return a.value.Equal(other.value)
}

// Cmp compares a and other, returning -1, 0 or +1.
func (a Amount) Cmp(other Amount) int {
	return a.value.Cmp(other.value)
}

// Add returns a+other, failing when the sum leaves the 128-bit range.
func (a Amount) Add(other Amount) (Amount, error) {
	return newAmount(a.value.Add(other.value))
}

// Sub returns a-other, failing when the result would be negative.
func (a Amount) Sub(other Amount) (Amount, error) {
	return newAmount(a.value.Sub(other.value))
}

// String returns the canonical base-10 form.
func (a Amount) String() string {
	return a.value.String()
}

// MarshalJSON encodes the amount as a JSON string so 128-bit values survive
// clients that decode numbers as float64.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a JSON string or a JSON integer.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	parsed, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

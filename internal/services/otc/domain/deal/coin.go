package deal

import (
	"fmt"
	"regexp"
)

// denomPattern accepts bank-style denominations such as "uusd", "ibc/27A6..."
// or "factory/addr/sub".
var denomPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{0,127}$`)

// Coin is an amount of a single denomination.
type Coin struct {
	Denom  string `json:"denom"`
	Amount Amount `json:"amount"`
}

// NewCoin validates denom and returns a coin.
func NewCoin(denom string, amount Amount) (Coin, error) {
	if err := ValidateDenom(denom); err != nil {
		return Coin{}, err
	}
	return Coin{Denom: denom, Amount: amount}, nil
}

// ValidateDenom reports whether denom is a well-formed denomination.
func ValidateDenom(denom string) error {
	if !denomPattern.MatchString(denom) {
		return fmt.Errorf("invalid denom %q", denom)
	}
	return nil
}

// String renders the coin as "<amount><denom>".
func (c Coin) String() string {
	return c.Amount.String() + c.Denom
}

// Matches reports whether c has exactly the given denom and amount.
func (c Coin) Matches(denom string, amount Amount) bool {
	return c.Denom == denom && c.Amount.Equal(amount)
}

package deal

import (
	"fmt"
	"time"
)

// Address is a validated caller identity.
type Address string

// String returns the address text.
func (a Address) String() string {
	return string(a)
}

// AddressValidator turns a raw identity string into a validated Address.
type AddressValidator interface {
	ValidateAddress(raw string) (Address, error)
}

// Deal is one escrowed offer.
type Deal struct {
	ID        uint64    `json:"id"`
	Creator   Address   `json:"creator"`
	Recipient *Address  `json:"recipient,omitempty"`
	DenomIn   string    `json:"denom_in"`
	AmountIn  Amount    `json:"amount_in"`
	DenomOut  string    `json:"denom_out"`
	AmountOut Amount    `json:"amount_out"`
	Status    Status    `json:"status"`
	Timeout   time.Time `json:"timeout"`
	CreatedAt time.Time `json:"created_at"`
}

// Escrow returns the coin the creator placed in custody.
func (d Deal) Escrow() Coin {
	return Coin{Denom: d.DenomIn, Amount: d.AmountIn}
}

// Ask returns the coin the creator demands in return.
func (d Deal) Ask() Coin {
	return Coin{Denom: d.DenomOut, Amount: d.AmountOut}
}

// ExpiredAt reports whether the deal is past its timeout at now. A deal is
// still live at exactly its timeout second.
func (d Deal) ExpiredAt(now time.Time) bool {
	return now.After(d.Timeout)
}

// AllowsAcceptor reports whether caller may accept the deal.
func (d Deal) AllowsAcceptor(caller Address) bool {
	return d.Recipient == nil || *d.Recipient == caller
}

// Transition returns a copy of d moved to next.
func (d Deal) Transition(next Status) (Deal, error) {
	if !d.Status.CanTransitionTo(next) {
		return Deal{}, fmt.Errorf("deal %d cannot move from %s to %s", d.ID, d.Status, next)
	}
	d.Status = next
	return d, nil
}

// Transfer is an instruction for the custodian to release coins.
type Transfer struct {
	ToAddress Address `json:"to_address"`
	Coin      Coin    `json:"coin"`
}

// Attribute is a key/value pair describing an operation's outcome.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

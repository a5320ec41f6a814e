package lifecycle

import (
	"time"

	"github.com/nseguias/otc/internal/services/otc/domain/deal"
)

// CancelCommand returns an open, live deal's escrow to its creator.
type CancelCommand struct {
	Sender deal.Address
	Funds  []deal.Coin
	DealID uint64
}

// WithdrawCommand returns an open, expired deal's escrow to its creator.
type WithdrawCommand struct {
	Sender deal.Address
	Funds  []deal.Coin
	DealID uint64
}

// Cancel decides a CancelDeal operation against the loaded deal.
func Cancel(current deal.Deal, cmd CancelCommand, now time.Time) (Decision, error) {
	if current.Status != deal.StatusOpen {
		return Decision{}, errNotOpen(current)
	}
	if cmd.Sender != current.Creator {
		return Decision{}, errUnauthorized("only the creator may cancel")
	}
	if current.ExpiredAt(now) {
		return Decision{}, errExpired(current)
	}
	if len(cmd.Funds) != 0 {
		return Decision{}, errNoFundsAllowed(len(cmd.Funds))
	}
	return refund(current, deal.StatusCancelled, ActionCancelDeal)
}

// Withdraw decides a Withdraw operation against the loaded deal.
func Withdraw(current deal.Deal, cmd WithdrawCommand, now time.Time) (Decision, error) {
	if current.Status != deal.StatusOpen {
		return Decision{}, errNotOpen(current)
	}
	if !current.ExpiredAt(now) {
		return Decision{}, errNotExpired(current)
	}
	if cmd.Sender != current.Creator {
		return Decision{}, errUnauthorized("only the creator may withdraw")
	}
	if len(cmd.Funds) != 0 {
		return Decision{}, errNoFundsAllowed(len(cmd.Funds))
	}
	return refund(current, deal.StatusWithdrawn, ActionWithdraw)
}

func refund(current deal.Deal, next deal.Status, action string) (Decision, error) {
	closed, err := current.Transition(next)
	if err != nil {
		return Decision{}, errNotOpen(current)
	}
	return Decision{
		Deal: closed,
		Transfers: []deal.Transfer{
			{ToAddress: current.Creator, Coin: current.Escrow()},
		},
		Attributes: []deal.Attribute{
			attr(AttrAction, action),
			attr(AttrDealID, dealIDString(current.ID)),
		},
	}, nil
}

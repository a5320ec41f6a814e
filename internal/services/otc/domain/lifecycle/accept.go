package lifecycle

import (
	"time"

	"github.com/nseguias/otc/internal/services/otc/domain/deal"
)

// AcceptCommand fills an open deal. DenomOut/AmountOut must quote the deal's
// stored counter-terms and Funds must deliver exactly them.
type AcceptCommand struct {
	Sender    deal.Address
	Funds     []deal.Coin
	DealID    uint64
	DenomOut  string
	AmountOut deal.Amount
}

// Accept decides an AcceptDeal operation against the loaded deal.
func Accept(current deal.Deal, cmd AcceptCommand, now time.Time) (Decision, error) {
	if current.Status != deal.StatusOpen {
		return Decision{}, errNotOpen(current)
	}
	if current.ExpiredAt(now) {
		return Decision{}, errExpired(current)
	}
	if cmd.DenomOut != current.DenomOut {
		return Decision{}, errFundsDenom(cmd.DenomOut)
	}
	if !cmd.AmountOut.Equal(current.AmountOut) {
		return Decision{}, errFundsAmount(cmd.AmountOut)
	}
	if !current.AllowsAcceptor(cmd.Sender) {
		return Decision{}, errUnauthorized("caller is not the deal recipient")
	}
	if len(cmd.Funds) != 1 {
		return Decision{}, errFundsLength(len(cmd.Funds))
	}
	payment := cmd.Funds[0]
	if payment.Denom != current.DenomOut {
		return Decision{}, errFundsDenom(payment.Denom)
	}
	if !payment.Amount.Equal(current.AmountOut) {
		return Decision{}, errFundsAmount(payment.Amount)
	}

	executed, err := current.Transition(deal.StatusExecuted)
	if err != nil {
		return Decision{}, errNotOpen(current)
	}
	return Decision{
		Deal:     executed,
		Deposits: []deal.Coin{payment},
		Transfers: []deal.Transfer{
			{ToAddress: cmd.Sender, Coin: current.Escrow()},
			{ToAddress: current.Creator, Coin: payment},
		},
		Attributes: []deal.Attribute{
			attr(AttrAction, ActionAcceptDeal),
			attr(AttrDealID, dealIDString(current.ID)),
		},
	}, nil
}

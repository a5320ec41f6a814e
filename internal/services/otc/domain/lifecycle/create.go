package lifecycle

import (
	"strings"
	"time"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
)

// CreateCommand opens a new deal. Funds must hold exactly the escrowed coin.
type CreateCommand struct {
	Sender    deal.Address
	Funds     []deal.Coin
	DenomIn   string
	AmountIn  deal.Amount
	DenomOut  string
	AmountOut deal.Amount
	// Recipient restricts who may accept. Nil allows anyone.
	Recipient *string
	// Timeout is the deal lifetime in seconds. Nil uses the configured default.
	Timeout *uint64
}

// Create decides a CreateDeal operation. nextID is the ledger counter value
// the new deal will take.
func Create(cfg deal.Config, nextID uint64, cmd CreateCommand, validator deal.AddressValidator, now time.Time) (Decision, error) {
	if len(cmd.Funds) != 1 {
		return Decision{}, errFundsLength(len(cmd.Funds))
	}
	funds := cmd.Funds[0]
	if funds.Denom != cmd.DenomIn || deal.ValidateDenom(funds.Denom) != nil {
		return Decision{}, errFundsDenom(funds.Denom)
	}
	if !funds.Amount.Equal(cmd.AmountIn) || !funds.Amount.IsPositive() {
		return Decision{}, errFundsAmount(funds.Amount)
	}
	if cmd.Timeout != nil && *cmd.Timeout == 0 {
		return Decision{}, apperrors.New(apperrors.CodeTimeoutCannotBeZero, "timeout cannot be zero")
	}
	if err := deal.ValidateDenom(cmd.DenomOut); err != nil {
		return Decision{}, apperrors.WithMetadata(apperrors.CodeInvalidDenom, err.Error(), map[string]string{"denom": cmd.DenomOut})
	}
	if cmd.DenomOut == cmd.DenomIn {
		return Decision{}, apperrors.WithMetadata(apperrors.CodeSameDenom, "denom_out equals denom_in", map[string]string{"denom": cmd.DenomOut})
	}
	if !cmd.AmountOut.IsPositive() {
		return Decision{}, apperrors.WithMetadata(apperrors.CodeInvalidAmount, "amount_out must be positive", map[string]string{"amount": cmd.AmountOut.String()})
	}

	var recipient *deal.Address
	if cmd.Recipient != nil {
		raw := strings.TrimSpace(*cmd.Recipient)
		if validator == nil {
			return Decision{}, apperrors.New(apperrors.CodeInvalidAddress, "identity validator is not configured")
		}
		addr, err := validator.ValidateAddress(raw)
		if err != nil {
			return Decision{}, apperrors.WithMetadata(apperrors.CodeInvalidAddress, err.Error(), map[string]string{"address": raw})
		}
		recipient = &addr
	}

	lifetime := cfg.DefaultTimeout
	if cmd.Timeout != nil {
		lifetime = *cmd.Timeout
	}
	nowSec := now.Unix()
	if nowSec < 0 || nowSec > deal.MaxTimeoutUnix || lifetime > uint64(deal.MaxTimeoutUnix-nowSec) {
		return Decision{}, apperrors.New(apperrors.CodeTimeoutOverflow, "timeout overflows the clock range")
	}
	timeout := time.Unix(nowSec+int64(lifetime), 0).UTC()

	created := deal.Deal{
		ID:        nextID,
		Creator:   cmd.Sender,
		Recipient: recipient,
		DenomIn:   cmd.DenomIn,
		AmountIn:  cmd.AmountIn,
		DenomOut:  cmd.DenomOut,
		AmountOut: cmd.AmountOut,
		Status:    deal.StatusOpen,
		Timeout:   timeout,
		CreatedAt: time.Unix(nowSec, 0).UTC(),
	}
	return Decision{
		Deal:     created,
		Deposits: []deal.Coin{funds},
		Attributes: []deal.Attribute{
			attr(AttrAction, ActionCreateDeal),
			attr(AttrDealID, dealIDString(created.ID)),
			attr(AttrDenomIn, created.DenomIn),
			attr(AttrAmountIn, created.AmountIn.String()),
			attr(AttrDenomOut, created.DenomOut),
			attr(AttrAmountOut, created.AmountOut.String()),
		},
	}, nil
}

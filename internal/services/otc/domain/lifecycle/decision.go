package lifecycle

import (
	"strconv"

	"github.com/nseguias/otc/internal/services/otc/domain/deal"
)

// Action names reported in the "action" attribute.
const (
	ActionInstantiate = "instantiate"
	ActionCreateDeal  = "create_deal"
	ActionAcceptDeal  = "accept_deal"
	ActionCancelDeal  = "cancel_deal"
	ActionWithdraw    = "withdraw"
)

// Attribute keys.
const (
	AttrAction         = "action"
	AttrDealID         = "deal_id"
	AttrDenomIn        = "denom_in"
	AttrAmountIn       = "amount_in"
	AttrDenomOut       = "denom_out"
	AttrAmountOut      = "amount_out"
	AttrDefaultTimeout = "default_timeout"
)

// Decision is the accepted outcome of one operation.
type Decision struct {
	// Deal is the deal as it must be persisted.
	Deal deal.Deal
	// Deposits are the attached funds entering custody.
	Deposits []deal.Coin
	// Transfers are released from custody in order.
	Transfers []deal.Transfer
	// Attributes describe the outcome for callers and logs.
	Attributes []deal.Attribute
}

// Action returns the value of the action attribute.
func (d Decision) Action() string {
	for _, attr := range d.Attributes {
		if attr.Key == AttrAction {
			return attr.Value
		}
	}
	return ""
}

func attr(key, value string) deal.Attribute {
	return deal.Attribute{Key: key, Value: value}
}

func dealIDString(id uint64) string {
	return strconv.FormatUint(id, 10)
}

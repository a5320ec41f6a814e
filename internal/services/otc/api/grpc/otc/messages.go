package otc

import (
	"time"

	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/storage"
)

// Coin is an amount of one denomination on the wire. Amounts are base-10
// strings so 128-bit values survive JSON clients.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// Attribute is an outcome key/value pair.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Transfer is a release from custody.
type Transfer struct {
	ToAddress string `json:"to_address"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
}

// Deal is the wire form of a deal record. Timeout and CreatedAt are unix seconds.
type Deal struct {
	ID        uint64 `json:"id"`
	Creator   string `json:"creator"`
	Recipient string `json:"recipient,omitempty"`
	DenomIn   string `json:"denom_in"`
	AmountIn  string `json:"amount_in"`
	DenomOut  string `json:"denom_out"`
	AmountOut string `json:"amount_out"`
	Status    string `json:"status"`
	Timeout   int64  `json:"timeout"`
	CreatedAt int64  `json:"created_at"`
}

// TransferRecord is one outbox entry.
type TransferRecord struct {
	Seq       uint64    `json:"seq"`
	DealID    uint64    `json:"deal_id"`
	Action    string    `json:"action"`
	ToAddress string    `json:"to_address"`
	Denom     string    `json:"denom"`
	Amount    string    `json:"amount"`
	RequestID string    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type InstantiateRequest struct {
	DefaultTimeout *uint64 `json:"default_timeout,omitempty"`
}

type InstantiateResponse struct {
	Attributes []Attribute `json:"attributes"`
}

type CreateDealRequest struct {
	Funds     []Coin  `json:"funds"`
	DenomIn   string  `json:"denom_in"`
	AmountIn  string  `json:"amount_in"`
	DenomOut  string  `json:"denom_out"`
	AmountOut string  `json:"amount_out"`
	Recipient *string `json:"recipient,omitempty"`
	Timeout   *uint64 `json:"timeout,omitempty"`
}

type AcceptDealRequest struct {
	Funds     []Coin `json:"funds"`
	DealID    uint64 `json:"deal_id"`
	DenomOut  string `json:"denom_out"`
	AmountOut string `json:"amount_out"`
}

type CancelDealRequest struct {
	Funds  []Coin `json:"funds,omitempty"`
	DealID uint64 `json:"deal_id"`
}

type WithdrawRequest struct {
	Funds  []Coin `json:"funds,omitempty"`
	DealID uint64 `json:"deal_id"`
}

// ExecuteResponse is returned by every deal-mutating method.
type ExecuteResponse struct {
	Deal       *Deal       `json:"deal,omitempty"`
	Attributes []Attribute `json:"attributes"`
	Transfers  []Transfer  `json:"transfers"`
}

type GetConfigRequest struct{}

type GetConfigResponse struct {
	DefaultTimeout uint64 `json:"default_timeout"`
}

type GetDealRequest struct {
	DealID uint64 `json:"deal_id"`
}

type GetDealResponse struct {
	Deal *Deal `json:"deal"`
}

type ListDealsRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	Filter    string `json:"filter,omitempty"`
}

type ListDealsResponse struct {
	Deals         []*Deal `json:"deals"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

type ListTransfersRequest struct {
	DealID uint64 `json:"deal_id"`
}

type ListTransfersResponse struct {
	Transfers []TransferRecord `json:"transfers"`
}

// DealToProto converts a domain deal to its wire form.
func DealToProto(d deal.Deal) *Deal {
	out := &Deal{
		ID:        d.ID,
		Creator:   d.Creator.String(),
		DenomIn:   d.DenomIn,
		AmountIn:  d.AmountIn.String(),
		DenomOut:  d.DenomOut,
		AmountOut: d.AmountOut.String(),
		Status:    d.Status.String(),
		Timeout:   d.Timeout.Unix(),
		CreatedAt: d.CreatedAt.Unix(),
	}
	if d.Recipient != nil {
		out.Recipient = d.Recipient.String()
	}
	return out
}

func attributesToProto(attrs []deal.Attribute) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, Attribute{Key: attr.Key, Value: attr.Value})
	}
	return out
}

func transfersToProto(transfers []deal.Transfer) []Transfer {
	out := make([]Transfer, 0, len(transfers))
	for _, transfer := range transfers {
		out = append(out, Transfer{
			ToAddress: transfer.ToAddress.String(),
			Denom:     transfer.Coin.Denom,
			Amount:    transfer.Coin.Amount.String(),
		})
	}
	return out
}

func transferRecordsToProto(records []storage.TransferRecord) []TransferRecord {
	out := make([]TransferRecord, 0, len(records))
	for _, record := range records {
		out = append(out, TransferRecord{
			Seq:       record.Seq,
			DealID:    record.DealID,
			Action:    record.Action,
			ToAddress: record.ToAddress.String(),
			Denom:     record.Coin.Denom,
			Amount:    record.Coin.Amount.String(),
			RequestID: record.RequestID,
			CreatedAt: record.CreatedAt,
		})
	}
	return out
}

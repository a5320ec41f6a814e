package domain

import (
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	otcservice "github.com/nseguias/otc/internal/services/otc/api/grpc/otc"
)

// CoinInput is an amount of one denomination attached to a tool call.
type CoinInput struct {
	Denom  string `json:"denom" jsonschema:"denomination"`
	Amount string `json:"amount" jsonschema:"base-10 integer amount"`
}

// DealCreateInput represents the MCP tool input for deal creation.
type DealCreateInput struct {
	Sender    string      `json:"sender" jsonschema:"address of the deal creator"`
	Funds     []CoinInput `json:"funds" jsonschema:"funds attached to the call; must be exactly amount_in of denom_in"`
	DenomIn   string      `json:"denom_in" jsonschema:"denomination the creator escrows"`
	AmountIn  string      `json:"amount_in" jsonschema:"amount the creator escrows"`
	DenomOut  string      `json:"denom_out" jsonschema:"denomination the creator wants in return"`
	AmountOut string      `json:"amount_out" jsonschema:"amount the creator wants in return"`
	Recipient *string     `json:"recipient,omitempty" jsonschema:"optional address that alone may accept the deal"`
	Timeout   *uint64     `json:"timeout,omitempty" jsonschema:"optional lifetime in seconds; defaults to the configured default timeout and must not be zero"`
}

// DealAcceptInput represents the MCP tool input for accepting a deal.
type DealAcceptInput struct {
	Sender    string      `json:"sender" jsonschema:"address of the counterparty"`
	DealID    uint64      `json:"deal_id" jsonschema:"deal identifier"`
	Funds     []CoinInput `json:"funds" jsonschema:"funds attached to the call; must be exactly the deal's amount_out of denom_out"`
	DenomOut  string      `json:"denom_out" jsonschema:"denomination the counterparty pays"`
	AmountOut string      `json:"amount_out" jsonschema:"amount the counterparty pays"`
}

// DealActionInput represents the MCP tool input for cancel and withdraw.
type DealActionInput struct {
	Sender string `json:"sender" jsonschema:"address of the deal creator"`
	DealID uint64 `json:"deal_id" jsonschema:"deal identifier"`
}

// DealGetInput represents the MCP tool input for reading one deal.
type DealGetInput struct {
	DealID uint64 `json:"deal_id" jsonschema:"deal identifier"`
}

// ConfigGetInput represents the MCP tool input for reading the engine configuration.
type ConfigGetInput struct{}

// DealListInput represents the MCP tool input for listing deals.
type DealListInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum number of deals to return"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous page"`
	Filter    string `json:"filter,omitempty" jsonschema:"filter expression, e.g. status = \"open\" AND creator = \"alice\""`
}

// TransferListInput represents the MCP tool input for listing a deal's transfers.
type TransferListInput struct {
	DealID uint64 `json:"deal_id" jsonschema:"deal identifier"`
}

// DealResult is the readable form of a deal.
type DealResult struct {
	ID        uint64 `json:"id" jsonschema:"deal identifier"`
	Creator   string `json:"creator" jsonschema:"creator address"`
	Recipient string `json:"recipient,omitempty" jsonschema:"designated counterparty, if any"`
	DenomIn   string `json:"denom_in" jsonschema:"escrowed denomination"`
	AmountIn  string `json:"amount_in" jsonschema:"escrowed amount"`
	DenomOut  string `json:"denom_out" jsonschema:"requested denomination"`
	AmountOut string `json:"amount_out" jsonschema:"requested amount"`
	Status    string `json:"status" jsonschema:"deal status (open, executed, cancelled, withdrawn)"`
	Timeout   string `json:"timeout" jsonschema:"RFC3339 timestamp after which the deal can no longer be accepted"`
	CreatedAt string `json:"created_at" jsonschema:"RFC3339 timestamp when the deal was created"`
}

// AttributeResult is one outcome key/value pair.
type AttributeResult struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TransferResult is a release from custody.
type TransferResult struct {
	ToAddress string `json:"to_address"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
}

// DealExecuteResult represents the MCP tool output of deal-mutating tools.
type DealExecuteResult struct {
	Deal       *DealResult       `json:"deal,omitempty" jsonschema:"deal after the operation"`
	Attributes []AttributeResult `json:"attributes" jsonschema:"outcome attributes"`
	Transfers  []TransferResult  `json:"transfers" jsonschema:"transfers released from custody"`
}

// ConfigResult represents the MCP tool output for the engine configuration.
type ConfigResult struct {
	DefaultTimeout uint64 `json:"default_timeout" jsonschema:"default deal lifetime in seconds"`
}

// DealListResult represents the MCP tool output for deal listings.
type DealListResult struct {
	Deals         []DealResult `json:"deals"`
	NextPageToken string       `json:"next_page_token,omitempty" jsonschema:"token for the next page; empty on the last page"`
}

// TransferRecordResult is one executed transfer of a deal.
type TransferRecordResult struct {
	Seq       uint64 `json:"seq"`
	Action    string `json:"action"`
	ToAddress string `json:"to_address"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
	RequestID string `json:"request_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// TransferListResult represents the MCP tool output for a deal's transfers.
type TransferListResult struct {
	Transfers []TransferRecordResult `json:"transfers"`
}

// DealPayload represents the MCP resource payload for a single deal.
type DealPayload struct {
	Deal      DealResult             `json:"deal"`
	Transfers []TransferRecordResult `json:"transfers"`
}

// DealCreateTool defines the MCP tool schema for creating deals.
func DealCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "otc_create_deal",
		Description: "Creates an OTC deal, escrowing the attached funds until the deal is accepted, cancelled or withdrawn",
	}
}

// DealAcceptTool defines the MCP tool schema for accepting deals.
func DealAcceptTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "otc_accept_deal",
		Description: "Accepts an open deal, paying the requested amount and receiving the escrowed amount",
	}
}

// DealCancelTool defines the MCP tool schema for cancelling deals.
func DealCancelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "otc_cancel_deal",
		Description: "Cancels an open deal before its timeout and refunds the creator",
	}
}

// DealWithdrawTool defines the MCP tool schema for withdrawing expired deals.
func DealWithdrawTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "otc_withdraw",
		Description: "Withdraws the escrow of an open deal after its timeout and refunds the creator",
	}
}

// ConfigGetTool defines the MCP tool schema for reading the engine configuration.
func ConfigGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "otc_config",
		Description: "Returns the OTC engine configuration",
	}
}

// DealGetTool defines the MCP tool schema for reading one deal.
func DealGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "otc_deal",
		Description: "Returns one deal by identifier",
	}
}

// DealListTool defines the MCP tool schema for listing deals.
func DealListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "otc_list_deals",
		Description: "Lists deals in id order with optional filtering and paging",
	}
}

// TransferListTool defines the MCP tool schema for listing a deal's transfers.
func TransferListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "otc_list_transfers",
		Description: "Lists the transfers executed for a deal in execution order",
	}
}

// DealResourceTemplate defines the MCP resource template for single deals.
func DealResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "deal",
		Title:       "Deal",
		Description: "Readable deal record with its executed transfers. URI format: otc://deals/{deal_id}",
		MIMEType:    "application/json",
		URITemplate: "otc://deals/{deal_id}",
	}
}

// DealResourceURI returns the resource URI of a deal.
func DealResourceURI(id uint64) string {
	return dealResourcePrefix + strconv.FormatUint(id, 10)
}

const dealResourcePrefix = "otc://deals/"

func dealResultFromProto(d *otcservice.Deal) DealResult {
	if d == nil {
		return DealResult{}
	}
	return DealResult{
		ID:        d.ID,
		Creator:   d.Creator,
		Recipient: d.Recipient,
		DenomIn:   d.DenomIn,
		AmountIn:  d.AmountIn,
		DenomOut:  d.DenomOut,
		AmountOut: d.AmountOut,
		Status:    d.Status,
		Timeout:   formatUnix(d.Timeout),
		CreatedAt: formatUnix(d.CreatedAt),
	}
}

func executeResultFromProto(resp *otcservice.ExecuteResponse) DealExecuteResult {
	result := DealExecuteResult{
		Attributes: make([]AttributeResult, 0, len(resp.Attributes)),
		Transfers:  make([]TransferResult, 0, len(resp.Transfers)),
	}
	if resp.Deal != nil {
		deal := dealResultFromProto(resp.Deal)
		result.Deal = &deal
	}
	for _, attr := range resp.Attributes {
		result.Attributes = append(result.Attributes, AttributeResult{Key: attr.Key, Value: attr.Value})
	}
	for _, transfer := range resp.Transfers {
		result.Transfers = append(result.Transfers, TransferResult{
			ToAddress: transfer.ToAddress,
			Denom:     transfer.Denom,
			Amount:    transfer.Amount,
		})
	}
	return result
}

func transferRecordsFromProto(records []otcservice.TransferRecord) []TransferRecordResult {
	out := make([]TransferRecordResult, 0, len(records))
	for _, record := range records {
		out = append(out, TransferRecordResult{
			Seq:       record.Seq,
			Action:    record.Action,
			ToAddress: record.ToAddress,
			Denom:     record.Denom,
			Amount:    record.Amount,
			RequestID: record.RequestID,
			CreatedAt: formatTime(record.CreatedAt),
		})
	}
	return out
}

func coinsToProto(coins []CoinInput) []otcservice.Coin {
	out := make([]otcservice.Coin, 0, len(coins))
	for _, coin := range coins {
		out = append(out, otcservice.Coin{Denom: coin.Denom, Amount: coin.Amount})
	}
	return out
}

func formatUnix(seconds int64) string {
	if seconds == 0 {
		return ""
	}
	return formatTime(time.Unix(seconds, 0))
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

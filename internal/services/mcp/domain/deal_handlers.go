package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nseguias/otc/internal/platform/timeouts"
	otcservice "github.com/nseguias/otc/internal/services/otc/api/grpc/otc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// OTCClient is the subset of the OTC gRPC client used by MCP handlers.
type OTCClient interface {
	CreateDeal(ctx context.Context, in *otcservice.CreateDealRequest, opts ...grpc.CallOption) (*otcservice.ExecuteResponse, error)
	AcceptDeal(ctx context.Context, in *otcservice.AcceptDealRequest, opts ...grpc.CallOption) (*otcservice.ExecuteResponse, error)
	CancelDeal(ctx context.Context, in *otcservice.CancelDealRequest, opts ...grpc.CallOption) (*otcservice.ExecuteResponse, error)
	Withdraw(ctx context.Context, in *otcservice.WithdrawRequest, opts ...grpc.CallOption) (*otcservice.ExecuteResponse, error)
	GetConfig(ctx context.Context, in *otcservice.GetConfigRequest, opts ...grpc.CallOption) (*otcservice.GetConfigResponse, error)
	GetDeal(ctx context.Context, in *otcservice.GetDealRequest, opts ...grpc.CallOption) (*otcservice.GetDealResponse, error)
	ListDeals(ctx context.Context, in *otcservice.ListDealsRequest, opts ...grpc.CallOption) (*otcservice.ListDealsResponse, error)
	ListTransfers(ctx context.Context, in *otcservice.ListTransfersRequest, opts ...grpc.CallOption) (*otcservice.ListTransfersResponse, error)
}

var _ OTCClient = (*otcservice.OTCServiceClient)(nil)

// executeCall runs one deal-mutating RPC on behalf of sender and converts
// its response. Every call gets its own request id and timeout.
func executeCall(
	ctx context.Context,
	sender string,
	tokens TokenSource,
	notify ResourceUpdateNotifier,
	name string,
	call func(context.Context, ...grpc.CallOption) (*otcservice.ExecuteResponse, error),
) (*mcp.CallToolResult, DealExecuteResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	defer cancel()

	callCtx, callMeta, err := NewOutgoingContext(runCtx, sender, tokens)
	if err != nil {
		return nil, DealExecuteResult{}, fmt.Errorf("create request metadata: %w", err)
	}

	var header metadata.MD
	response, err := call(callCtx, grpc.Header(&header))
	if err != nil {
		return nil, DealExecuteResult{}, fmt.Errorf("%s failed: %w", name, err)
	}
	if response == nil {
		return nil, DealExecuteResult{}, fmt.Errorf("%s response is missing", name)
	}

	result := executeResultFromProto(response)
	if result.Deal != nil {
		NotifyResourceUpdates(ctx, notify, DealResourceURI(result.Deal.ID))
	}
	return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
}

// DealCreateHandler executes a deal creation request.
func DealCreateHandler(client OTCClient, tokens TokenSource, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[DealCreateInput, DealExecuteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DealCreateInput) (*mcp.CallToolResult, DealExecuteResult, error) {
		request := &otcservice.CreateDealRequest{
			Funds:     coinsToProto(input.Funds),
			DenomIn:   input.DenomIn,
			AmountIn:  input.AmountIn,
			DenomOut:  input.DenomOut,
			AmountOut: input.AmountOut,
			Recipient: input.Recipient,
			Timeout:   input.Timeout,
		}
		return executeCall(ctx, input.Sender, tokens, notify, "deal create", func(callCtx context.Context, opts ...grpc.CallOption) (*otcservice.ExecuteResponse, error) {
			return client.CreateDeal(callCtx, request, opts...)
		})
	}
}

// DealAcceptHandler executes a deal acceptance request.
func DealAcceptHandler(client OTCClient, tokens TokenSource, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[DealAcceptInput, DealExecuteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DealAcceptInput) (*mcp.CallToolResult, DealExecuteResult, error) {
		request := &otcservice.AcceptDealRequest{
			Funds:     coinsToProto(input.Funds),
			DealID:    input.DealID,
			DenomOut:  input.DenomOut,
			AmountOut: input.AmountOut,
		}
		return executeCall(ctx, input.Sender, tokens, notify, "deal accept", func(callCtx context.Context, opts ...grpc.CallOption) (*otcservice.ExecuteResponse, error) {
			return client.AcceptDeal(callCtx, request, opts...)
		})
	}
}

// DealCancelHandler executes a deal cancellation request.
func DealCancelHandler(client OTCClient, tokens TokenSource, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[DealActionInput, DealExecuteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DealActionInput) (*mcp.CallToolResult, DealExecuteResult, error) {
		request := &otcservice.CancelDealRequest{DealID: input.DealID}
		return executeCall(ctx, input.Sender, tokens, notify, "deal cancel", func(callCtx context.Context, opts ...grpc.CallOption) (*otcservice.ExecuteResponse, error) {
			return client.CancelDeal(callCtx, request, opts...)
		})
	}
}

// DealWithdrawHandler executes a withdraw request for an expired deal.
func DealWithdrawHandler(client OTCClient, tokens TokenSource, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[DealActionInput, DealExecuteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DealActionInput) (*mcp.CallToolResult, DealExecuteResult, error) {
		request := &otcservice.WithdrawRequest{DealID: input.DealID}
		return executeCall(ctx, input.Sender, tokens, notify, "withdraw", func(callCtx context.Context, opts ...grpc.CallOption) (*otcservice.ExecuteResponse, error) {
			return client.Withdraw(callCtx, request, opts...)
		})
	}
}

// ConfigGetHandler reads the engine configuration.
func ConfigGetHandler(client OTCClient) mcp.ToolHandlerFor[ConfigGetInput, ConfigResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ConfigGetInput) (*mcp.CallToolResult, ConfigResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx, "", nil)
		if err != nil {
			return nil, ConfigResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD
		response, err := client.GetConfig(callCtx, &otcservice.GetConfigRequest{}, grpc.Header(&header))
		if err != nil {
			return nil, ConfigResult{}, fmt.Errorf("config get failed: %w", err)
		}
		if response == nil {
			return nil, ConfigResult{}, fmt.Errorf("config get response is missing")
		}
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), ConfigResult{DefaultTimeout: response.DefaultTimeout}, nil
	}
}

// DealGetHandler reads one deal.
func DealGetHandler(client OTCClient) mcp.ToolHandlerFor[DealGetInput, DealResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DealGetInput) (*mcp.CallToolResult, DealResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx, "", nil)
		if err != nil {
			return nil, DealResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD
		response, err := client.GetDeal(callCtx, &otcservice.GetDealRequest{DealID: input.DealID}, grpc.Header(&header))
		if err != nil {
			return nil, DealResult{}, fmt.Errorf("deal get failed: %w", err)
		}
		if response == nil || response.Deal == nil {
			return nil, DealResult{}, fmt.Errorf("deal get response is missing")
		}
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), dealResultFromProto(response.Deal), nil
	}
}

// DealListHandler lists deals page by page.
func DealListHandler(client OTCClient) mcp.ToolHandlerFor[DealListInput, DealListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DealListInput) (*mcp.CallToolResult, DealListResult, error) {
		if input.PageSize < 0 {
			return nil, DealListResult{}, fmt.Errorf("page_size must not be negative")
		}
		runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx, "", nil)
		if err != nil {
			return nil, DealListResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD
		response, err := client.ListDeals(callCtx, &otcservice.ListDealsRequest{
			PageSize:  int32(min(input.PageSize, 1<<31-1)),
			PageToken: input.PageToken,
			Filter:    input.Filter,
		}, grpc.Header(&header))
		if err != nil {
			return nil, DealListResult{}, fmt.Errorf("deal list failed: %w", err)
		}
		if response == nil {
			return nil, DealListResult{}, fmt.Errorf("deal list response is missing")
		}

		result := DealListResult{
			Deals:         make([]DealResult, 0, len(response.Deals)),
			NextPageToken: response.NextPageToken,
		}
		for _, d := range response.Deals {
			result.Deals = append(result.Deals, dealResultFromProto(d))
		}
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
	}
}

// TransferListHandler lists the transfers executed for a deal.
func TransferListHandler(client OTCClient) mcp.ToolHandlerFor[TransferListInput, TransferListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TransferListInput) (*mcp.CallToolResult, TransferListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx, "", nil)
		if err != nil {
			return nil, TransferListResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD
		response, err := client.ListTransfers(callCtx, &otcservice.ListTransfersRequest{DealID: input.DealID}, grpc.Header(&header))
		if err != nil {
			return nil, TransferListResult{}, fmt.Errorf("transfer list failed: %w", err)
		}
		if response == nil {
			return nil, TransferListResult{}, fmt.Errorf("transfer list response is missing")
		}
		result := TransferListResult{Transfers: transferRecordsFromProto(response.Transfers)}
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
	}
}

package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nseguias/otc/internal/platform/timeouts"
	otcservice "github.com/nseguias/otc/internal/services/otc/api/grpc/otc"
)

// DealResourceHandler returns a readable deal resource with its transfers.
func DealResourceHandler(client OTCClient) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if client == nil {
			return nil, fmt.Errorf("otc client is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("deal ID is required; use URI format otc://deals/{deal_id}")
		}
		uri := req.Params.URI

		dealID, err := parseDealIDFromURI(uri)
		if err != nil {
			return nil, fmt.Errorf("parse deal ID from URI: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
		defer cancel()

		callCtx, _, err := NewOutgoingContext(runCtx, "", nil)
		if err != nil {
			return nil, fmt.Errorf("create request metadata: %w", err)
		}

		dealResp, err := client.GetDeal(callCtx, &otcservice.GetDealRequest{DealID: dealID})
		if err != nil {
			return nil, fmt.Errorf("deal get failed: %w", err)
		}
		if dealResp == nil || dealResp.Deal == nil {
			return nil, fmt.Errorf("deal response is missing")
		}
		transfersResp, err := client.ListTransfers(callCtx, &otcservice.ListTransfersRequest{DealID: dealID})
		if err != nil {
			return nil, fmt.Errorf("transfer list failed: %w", err)
		}
		if transfersResp == nil {
			return nil, fmt.Errorf("transfer list response is missing")
		}

		payload := DealPayload{
			Deal:      dealResultFromProto(dealResp.Deal),
			Transfers: transferRecordsFromProto(transfersResp.Transfers),
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal deal: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

// parseDealIDFromURI extracts the deal ID from a URI of the form otc://deals/{deal_id}.
func parseDealIDFromURI(uri string) (uint64, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(uri), dealResourcePrefix)
	if !ok {
		return 0, fmt.Errorf("URI must start with %q", dealResourcePrefix)
	}
	if raw == "" || strings.Contains(raw, "/") {
		return 0, fmt.Errorf("deal ID is required in URI")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("deal ID %q is not a number", raw)
	}
	return id, nil
}

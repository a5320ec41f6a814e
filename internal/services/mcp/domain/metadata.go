package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	grpcmeta "github.com/nseguias/otc/internal/services/otc/api/grpc/metadata"
	"google.golang.org/grpc/metadata"
)

// ToolCallMetadata carries correlation identifiers for MCP tool calls.
type ToolCallMetadata struct {
	RequestID string
}

// ResourceUpdateNotifier notifies MCP clients about resource updates.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// TokenSource issues a bearer token for sender. A nil TokenSource sends the
// sender header only.
type TokenSource func(sender string) (string, error)

// NewOutgoingContext attaches sender, a fresh request id and, when tokens is
// set, a bearer token to an outbound call.
func NewOutgoingContext(ctx context.Context, sender string, tokens TokenSource) (context.Context, ToolCallMetadata, error) {
	requestID, err := grpcmeta.NewRequestID()
	if err != nil {
		return nil, ToolCallMetadata{}, fmt.Errorf("generate request id: %w", err)
	}
	sender = strings.TrimSpace(sender)
	token := ""
	if tokens != nil && sender != "" {
		token, err = tokens(sender)
		if err != nil {
			return nil, ToolCallMetadata{}, fmt.Errorf("issue token: %w", err)
		}
	}
	callCtx := grpcmeta.OutgoingContext(ctx, sender, requestID, token)
	return callCtx, ToolCallMetadata{RequestID: requestID}, nil
}

// MergeResponseMetadata overlays response headers on top of sent metadata.
func MergeResponseMetadata(sent ToolCallMetadata, header metadata.MD) ToolCallMetadata {
	requestID := grpcmeta.FirstMetadataValue(header, grpcmeta.RequestIDHeader)
	if requestID == "" {
		requestID = sent.RequestID
	}
	return ToolCallMetadata{RequestID: requestID}
}

// CallToolResultWithMetadata builds a tool result with correlation metadata.
func CallToolResultWithMetadata(meta ToolCallMetadata) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Meta: map[string]any{
			grpcmeta.RequestIDHeader: meta.RequestID,
		},
	}
}

// NotifyResourceUpdates sends resource update notifications for each URI provided.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, uri := range uris {
		if strings.TrimSpace(uri) == "" {
			continue
		}
		notify(ctx, uri)
	}
}

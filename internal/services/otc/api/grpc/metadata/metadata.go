// Package metadata defines the headers that carry caller and correlation
// context across OTC gRPC boundaries.
package metadata

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nseguias/otc/internal/platform/requestctx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDHeader is the gRPC metadata key for request correlation IDs.
const RequestIDHeader = "x-otc-request-id"

// SenderHeader is the gRPC metadata key for the caller address when token
// authentication is disabled.
const SenderHeader = "x-otc-sender"

// LocaleHeader selects the language of error messages.
const LocaleHeader = "x-otc-locale"

// AuthorizationHeader carries a bearer token when token authentication is enabled.
const AuthorizationHeader = "authorization"

// NewRequestID returns a random request id.
func NewRequestID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IsPrintableASCII reports whether a string contains only printable ASCII characters.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable value for key.
func FirstMetadataValue(md metadata.MD, key string) string {
	if len(md) == 0 {
		return ""
	}
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// IncomingValue returns the first printable value of header on an inbound call.
func IncomingValue(ctx context.Context, header string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return FirstMetadataValue(md, header)
}

// LocaleFromContext returns the requested error-message locale, if any.
func LocaleFromContext(ctx context.Context) string {
	return IncomingValue(ctx, LocaleHeader)
}

// UnaryServerInterceptor guarantees every unary call carries a request id,
// echoing it back in the response headers.
func UnaryServerInterceptor(idGenerator func() (string, error)) grpc.UnaryServerInterceptor {
	if idGenerator == nil {
		idGenerator = NewRequestID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := IncomingValue(ctx, RequestIDHeader)
		if requestID == "" {
			generated, err := idGenerator()
			if err != nil {
				return nil, status.Errorf(codes.Internal, "ensure request metadata: %v", err)
			}
			requestID = generated
		}
		ctx = requestctx.WithRequestID(ctx, requestID)
		if err := grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		return handler(ctx, req)
	}
}

// OutgoingContext attaches sender, request id and bearer token to an
// outbound call. Empty values are skipped.
func OutgoingContext(ctx context.Context, sender, requestID, token string) context.Context {
	pairs := make([]string, 0, 6)
	if sender = strings.TrimSpace(sender); sender != "" {
		pairs = append(pairs, SenderHeader, sender)
	}
	if requestID = strings.TrimSpace(requestID); requestID != "" {
		pairs = append(pairs, RequestIDHeader, requestID)
	}
	if token = strings.TrimSpace(token); token != "" {
		pairs = append(pairs, AuthorizationHeader, "Bearer "+token)
	}
	if len(pairs) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

package otc

import (
	"context"
	"log"
	"time"

	"github.com/nseguias/otc/internal/platform/requestctx"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor logs one line per unary call with its outcome and
// correlation ids.
func LoggingInterceptor(logf func(string, ...any)) grpc.UnaryServerInterceptor {
	if logf == nil {
		logf = log.Printf
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := codes.OK
		if err != nil {
			code = status.Code(err)
		}
		var traceID string
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
		}
		logf("rpc %s code=%s sender=%q request_id=%s trace_id=%s duration=%s",
			info.FullMethod,
			code,
			requestctx.SenderFromContext(ctx),
			requestctx.RequestIDFromContext(ctx),
			traceID,
			time.Since(start).Round(time.Microsecond),
		)
		return resp, err
	}
}

package requestctx

import (
	"context"
	"testing"
)

func TestSenderFromContextRoundTrip(t *testing.T) {
	ctx := WithSender(context.Background(), "creator")
	if got := SenderFromContext(ctx); got != "creator" {
		t.Fatalf("SenderFromContext = %q, want %q", got, "creator")
	}
}

func TestSenderFromContextEmpty(t *testing.T) {
	if got := SenderFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := SenderFromContext(nil); got != "" {
		t.Fatalf("expected empty string for nil context, got %q", got)
	}
}

func TestWithSenderNilContext(t *testing.T) {
	ctx := WithSender(nil, "recipient")
	if ctx == nil {
		t.Fatalf("expected non-nil context")
	}
	if got := SenderFromContext(ctx); got != "recipient" {
		t.Fatalf("SenderFromContext = %q, want %q", got, "recipient")
	}
}

func TestRequestIDFromContext(t *testing.T) {
	ctx := WithRequestID(WithSender(context.Background(), "creator"), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-1")
	}
	if got := SenderFromContext(ctx); got != "creator" {
		t.Fatalf("SenderFromContext = %q, want %q", got, "creator")
	}
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
}

package auth

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/platform/requestctx"
	grpcmeta "github.com/nseguias/otc/internal/services/otc/api/grpc/metadata"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	testKey = []byte("0123456789abcdef0123456789abcdef")
	testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
)

func newTestVerifier(issuer string) *Verifier {
	v := NewVerifier(testKey, issuer)
	v.now = func() time.Time { return testNow }
	return v
}

func TestVerifyRoundTrip(t *testing.T) {
	token, err := Sign(testKey, "otc-test", "alice", time.Minute, testNow)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	subject, err := newTestVerifier("otc-test").Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("subject = %q, want alice", subject)
	}
}

func TestVerifyRejects(t *testing.T) {
	valid, err := Sign(testKey, "otc-test", "alice", time.Minute, testNow)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	expired, err := Sign(testKey, "otc-test", "alice", time.Minute, testNow.Add(-time.Hour))
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}
	otherKey, err := Sign([]byte("another-key-another-key-another!"), "otc-test", "alice", time.Minute, testNow)
	if err != nil {
		t.Fatalf("sign other key: %v", err)
	}

	tests := []struct {
		name     string
		verifier *Verifier
		token    string
		message  string
	}{
		{name: "empty", verifier: newTestVerifier(""), token: " ", message: "bearer token is required"},
		{name: "expired", verifier: newTestVerifier(""), token: expired, message: "token is expired"},
		{name: "signature", verifier: newTestVerifier(""), token: otherKey, message: "token signature is invalid"},
		{name: "issuer", verifier: newTestVerifier("someone-else"), token: valid, message: "token issuer mismatch"},
		{name: "garbage", verifier: newTestVerifier(""), token: "not-a-token", message: "token is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.Verify(tt.token)
			if !apperrors.IsCode(err, apperrors.CodeUnauthenticated) {
				t.Fatalf("code = %s, want UNAUTHENTICATED (%v)", apperrors.GetCode(err), err)
			}
			domainErr, ok := err.(*apperrors.Error)
			if !ok || domainErr.Message != tt.message {
				t.Fatalf("message = %v, want %q", err, tt.message)
			}
		})
	}
}

func TestSignValidatesInput(t *testing.T) {
	if _, err := Sign(nil, "", "alice", time.Minute, testNow); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := Sign(testKey, "", " ", time.Minute, testNow); err == nil {
		t.Fatal("expected error for empty subject")
	}
	if _, err := Sign(testKey, "", "alice", 0, testNow); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func runInterceptor(t *testing.T, v *Verifier, md metadata.MD) (string, error) {
	t.Helper()
	ctx := metadata.NewIncomingContext(context.Background(), md)
	var sender string
	_, err := UnaryServerInterceptor(v)(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/otc.v1.OTCService/CreateDeal"}, func(ctx context.Context, req any) (any, error) {
		sender = requestctx.SenderFromContext(ctx)
		return nil, nil
	})
	return sender, err
}

func TestInterceptorHeaderMode(t *testing.T) {
	sender, err := runInterceptor(t, NewVerifier(nil, ""), metadata.Pairs(grpcmeta.SenderHeader, "alice"))
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if sender != "alice" {
		t.Fatalf("sender = %q, want alice", sender)
	}
}

func TestInterceptorTokenMode(t *testing.T) {
	token, err := Sign(testKey, "", "bob", time.Minute, testNow)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	v := newTestVerifier("")

	sender, err := runInterceptor(t, v, metadata.Pairs(grpcmeta.AuthorizationHeader, "Bearer "+token, grpcmeta.SenderHeader, "mallory"))
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if sender != "bob" {
		t.Fatalf("sender = %q, want bob", sender)
	}

	sender, err = runInterceptor(t, v, metadata.Pairs(grpcmeta.SenderHeader, "mallory"))
	if err != nil {
		t.Fatalf("anonymous interceptor: %v", err)
	}
	if sender != "" {
		t.Fatalf("sender = %q, want anonymous", sender)
	}

	_, err = runInterceptor(t, v, metadata.Pairs(grpcmeta.AuthorizationHeader, "Basic abc"))
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %s, want Unauthenticated", status.Code(err))
	}
}

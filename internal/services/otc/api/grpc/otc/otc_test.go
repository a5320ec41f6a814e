package otc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/platform/requestctx"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
)

func TestCodecRegistered(t *testing.T) {
	if encoding.GetCodec(CodecName) == nil {
		t.Fatalf("codec %q is not registered", CodecName)
	}
}

func TestCodecPlainMessages(t *testing.T) {
	codec := jsonCodec{}
	timeout := uint64(60)
	data, err := codec.Marshal(&CreateDealRequest{DenomIn: "A", AmountIn: "10", Timeout: &timeout})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"denom_in":"A"`) || !strings.Contains(string(data), `"timeout":60`) {
		t.Fatalf("payload = %s", data)
	}
	var out CreateDealRequest
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.AmountIn != "10" || out.Timeout == nil || *out.Timeout != 60 {
		t.Fatalf("decoded = %+v", out)
	}
}

func TestCodecExecuteResponse(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	in := &ExecuteResponse{
		Deal:       &Deal{ID: 2, Status: "executed", AmountIn: "340282366920938463463374607431768211455"},
		Attributes: []Attribute{{Key: "action", Value: "accept_deal"}},
		Transfers:  []Transfer{{ToAddress: "alice", Denom: "B", Amount: "1"}},
	}
	data, err := codec.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out ExecuteResponse
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Deal == nil || out.Deal.AmountIn != in.Deal.AmountIn || out.Deal.Status != "executed" {
		t.Fatalf("deal = %+v, want %+v", out.Deal, in.Deal)
	}
	if len(out.Transfers) != 1 || out.Transfers[0] != in.Transfers[0] {
		t.Fatalf("transfers = %+v, want %+v", out.Transfers, in.Transfers)
	}
	if len(out.Attributes) != 1 || out.Attributes[0] != in.Attributes[0] {
		t.Fatalf("attributes = %+v, want %+v", out.Attributes, in.Attributes)
	}
}

func TestDealToProto(t *testing.T) {
	bob := deal.Address("bob")
	timeout := time.Date(2026, time.March, 1, 13, 0, 0, 0, time.UTC)
	got := DealToProto(deal.Deal{
		ID:        3,
		Creator:   "alice",
		Recipient: &bob,
		DenomIn:   "uastro",
		AmountIn:  deal.MustAmount("340282366920938463463374607431768211455"),
		DenomOut:  "uusd",
		AmountOut: deal.MustAmount("1"),
		Status:    deal.StatusCancelled,
		Timeout:   timeout,
	})
	if got.Recipient != "bob" || got.Status != "cancelled" || got.Timeout != timeout.Unix() {
		t.Fatalf("deal = %+v", got)
	}
	if got.AmountIn != "340282366920938463463374607431768211455" {
		t.Fatalf("amount_in = %s", got.AmountIn)
	}
}

func TestFundsFromProtoRejectsMalformedAmount(t *testing.T) {
	_, err := fundsFromProto([]Coin{{Denom: "A", Amount: "-1"}})
	if err == nil {
		t.Fatal("expected error for negative amount")
	}
	funds, err := fundsFromProto([]Coin{{Denom: "A", Amount: "7"}})
	if err != nil {
		t.Fatalf("funds: %v", err)
	}
	if len(funds) != 1 || funds[0].String() != "7A" {
		t.Fatalf("funds = %+v", funds)
	}
}

func TestFundsFromProtoBoundsHugeExponent(t *testing.T) {
	start := time.Now()
	_, err := fundsFromProto([]Coin{{Denom: "A", Amount: "1e60000000"}})
	if apperrors.GetCode(err) != apperrors.CodeInvalidFundsAmount {
		t.Fatalf("code = %s, want %s (%v)", apperrors.GetCode(err), apperrors.CodeInvalidFundsAmount, err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("rejection took %s, want bounded time", elapsed)
	}

	_, err = fundsFromProto([]Coin{{Denom: "A", Amount: strings.Repeat("x", 4096)}})
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %T %v, want *apperrors.Error", err, err)
	}
	if got := len(appErr.Metadata["amount"]); got > 64 {
		t.Fatalf("metadata amount length = %d, want bounded preview", got)
	}
}

func TestNewServiceRequiresApp(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil app")
	}
}

func TestExecuteHandlersRequireSender(t *testing.T) {
	svc := &Service{}
	_, err := svc.CancelDeal(context.Background(), &CancelDealRequest{DealID: 1})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %s, want Unauthenticated", status.Code(err))
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var lines []string
	logf := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	ctx := requestctx.WithRequestID(requestctx.WithSender(context.Background(), "alice"), "req-1")
	_, err := LoggingInterceptor(logf)(ctx, nil, &grpc.UnaryServerInfo{FullMethod: OTCService_CancelDeal_FullMethodName}, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.PermissionDenied, "nope")
	})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("code = %s, want PermissionDenied", status.Code(err))
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %v, want 1", lines)
	}
	for _, want := range []string{OTCService_CancelDeal_FullMethodName, "code=PermissionDenied", `sender="alice"`, "request_id=req-1"} {
		if !strings.Contains(lines[0], want) {
			t.Fatalf("log line %q missing %q", lines[0], want)
		}
	}
}

func TestUnaryHandlerDecodeError(t *testing.T) {
	handler := unaryHandler(OTCService_GetDeal_FullMethodName, OTCServiceServer.GetDeal)
	boom := errors.New("bad payload")
	_, err := handler(&Service{}, context.Background(), func(any) error { return boom }, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

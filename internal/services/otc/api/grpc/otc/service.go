// Package otc implements the OTCService gRPC API over the escrow
// application service.
package otc

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/platform/requestctx"
	grpcmeta "github.com/nseguias/otc/internal/services/otc/api/grpc/metadata"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/escrow"
)

// Service implements OTCServiceServer.
type Service struct {
	app *escrow.Service
}

// NewService creates an OTCService handler over app.
func NewService(app *escrow.Service) (*Service, error) {
	if app == nil {
		return nil, fmt.Errorf("escrow service is required")
	}
	return &Service{app: app}, nil
}

func handleError(ctx context.Context, err error) error {
	return apperrors.HandleError(err, grpcmeta.LocaleFromContext(ctx))
}

// Instantiate stores the engine configuration.
func (s *Service) Instantiate(ctx context.Context, in *InstantiateRequest) (*InstantiateResponse, error) {
	if in == nil {
		in = &InstantiateRequest{}
	}
	result, err := s.app.Instantiate(ctx, escrow.InstantiateInput{DefaultTimeout: in.DefaultTimeout})
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &InstantiateResponse{Attributes: attributesToProto(result.Attributes)}, nil
}

// CreateDeal opens a deal escrowing the attached funds.
func (s *Service) CreateDeal(ctx context.Context, in *CreateDealRequest) (*ExecuteResponse, error) {
	if in == nil {
		in = &CreateDealRequest{}
	}
	if err := requireSender(ctx); err != nil {
		return nil, handleError(ctx, err)
	}
	funds, err := fundsFromProto(in.Funds)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	amountIn, err := parseAmount(in.AmountIn, apperrors.CodeInvalidFundsAmount)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	amountOut, err := parseAmount(in.AmountOut, apperrors.CodeInvalidAmount)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	result, err := s.app.CreateDeal(ctx, escrow.CreateDealInput{
		Funds:     funds,
		DenomIn:   in.DenomIn,
		AmountIn:  amountIn,
		DenomOut:  in.DenomOut,
		AmountOut: amountOut,
		Recipient: in.Recipient,
		Timeout:   in.Timeout,
	})
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return executeResponse(result), nil
}

// AcceptDeal executes a deal with the caller as counterparty.
func (s *Service) AcceptDeal(ctx context.Context, in *AcceptDealRequest) (*ExecuteResponse, error) {
	if in == nil {
		in = &AcceptDealRequest{}
	}
	if err := requireSender(ctx); err != nil {
		return nil, handleError(ctx, err)
	}
	funds, err := fundsFromProto(in.Funds)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	amountOut, err := parseAmount(in.AmountOut, apperrors.CodeInvalidFundsAmount)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	result, err := s.app.AcceptDeal(ctx, escrow.AcceptDealInput{
		Funds:     funds,
		DealID:    in.DealID,
		DenomOut:  in.DenomOut,
		AmountOut: amountOut,
	})
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return executeResponse(result), nil
}

// CancelDeal refunds a live deal to its creator.
func (s *Service) CancelDeal(ctx context.Context, in *CancelDealRequest) (*ExecuteResponse, error) {
	if in == nil {
		in = &CancelDealRequest{}
	}
	if err := requireSender(ctx); err != nil {
		return nil, handleError(ctx, err)
	}
	funds, err := fundsFromProto(in.Funds)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	result, err := s.app.CancelDeal(ctx, escrow.DealInput{Funds: funds, DealID: in.DealID})
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return executeResponse(result), nil
}

// Withdraw refunds an expired deal to its creator.
func (s *Service) Withdraw(ctx context.Context, in *WithdrawRequest) (*ExecuteResponse, error) {
	if in == nil {
		in = &WithdrawRequest{}
	}
	if err := requireSender(ctx); err != nil {
		return nil, handleError(ctx, err)
	}
	funds, err := fundsFromProto(in.Funds)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	result, err := s.app.Withdraw(ctx, escrow.DealInput{Funds: funds, DealID: in.DealID})
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return executeResponse(result), nil
}

// GetConfig returns the engine configuration.
func (s *Service) GetConfig(ctx context.Context, _ *GetConfigRequest) (*GetConfigResponse, error) {
	cfg, err := s.app.GetConfig(ctx)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &GetConfigResponse{DefaultTimeout: cfg.DefaultTimeout}, nil
}

// GetDeal returns one deal.
func (s *Service) GetDeal(ctx context.Context, in *GetDealRequest) (*GetDealResponse, error) {
	if in == nil {
		in = &GetDealRequest{}
	}
	d, err := s.app.GetDeal(ctx, in.DealID)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &GetDealResponse{Deal: DealToProto(d)}, nil
}

// ListDeals returns a page of deals.
func (s *Service) ListDeals(ctx context.Context, in *ListDealsRequest) (*ListDealsResponse, error) {
	if in == nil {
		in = &ListDealsRequest{}
	}
	page, err := s.app.ListDeals(ctx, escrow.ListDealsInput{
		PageSize:  in.PageSize,
		PageToken: in.PageToken,
		Filter:    in.Filter,
	})
	if err != nil {
		return nil, handleError(ctx, err)
	}
	resp := &ListDealsResponse{Deals: make([]*Deal, 0, len(page.Deals)), NextPageToken: page.NextPageToken}
	for _, d := range page.Deals {
		resp.Deals = append(resp.Deals, DealToProto(d))
	}
	return resp, nil
}

// ListTransfers returns the outbox entries for one deal.
func (s *Service) ListTransfers(ctx context.Context, in *ListTransfersRequest) (*ListTransfersResponse, error) {
	if in == nil {
		in = &ListTransfersRequest{}
	}
	records, err := s.app.ListTransfers(ctx, in.DealID)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &ListTransfersResponse{Transfers: transferRecordsToProto(records)}, nil
}

// requireSender rejects anonymous calls to deal-mutating methods.
func requireSender(ctx context.Context) error {
	if strings.TrimSpace(requestctx.SenderFromContext(ctx)) == "" {
		return apperrors.New(apperrors.CodeUnauthenticated, "caller identity is required")
	}
	return nil
}

func executeResponse(result escrow.Result) *ExecuteResponse {
	resp := &ExecuteResponse{
		Attributes: attributesToProto(result.Attributes),
		Transfers:  transfersToProto(result.Transfers),
	}
	if result.Deal != nil {
		resp.Deal = DealToProto(*result.Deal)
	}
	return resp
}

func parseAmount(raw string, code apperrors.Code) (deal.Amount, error) {
	amount, err := deal.ParseAmount(raw)
	if err != nil {
		return deal.Amount{}, apperrors.WithMetadata(code, err.Error(), map[string]string{"amount": deal.AmountPreview(raw)})
	}
	return amount, nil
}

// fundsFromProto converts attached funds. A malformed amount is reported as
// an invalid funds amount.
func fundsFromProto(funds []Coin) ([]deal.Coin, error) {
	out := make([]deal.Coin, 0, len(funds))
	for _, c := range funds {
		amount, err := parseAmount(c.Amount, apperrors.CodeInvalidFundsAmount)
		if err != nil {
			return nil, err
		}
		out = append(out, deal.Coin{Denom: c.Denom, Amount: amount})
	}
	return out, nil
}

var _ OTCServiceServer = (*Service)(nil)

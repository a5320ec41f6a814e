package escrow

import (
	"context"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/platform/grpc/pagination"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/storage"
	"github.com/nseguias/otc/internal/services/otc/storage/filter"
)

const (
	defaultListDealsPageSize = 50
	maxListDealsPageSize     = 200
)

// ListDealsInput selects a page of deals.
type ListDealsInput struct {
	PageSize  int32
	PageToken string
	Filter    string
}

// DealsPage is one page of deals with an opaque continuation token.
type DealsPage struct {
	Deals         []deal.Deal
	NextPageToken string
}

// GetConfig returns the engine configuration.
func (s *Service) GetConfig(ctx context.Context) (deal.Config, error) {
	return loadConfig(ctx, s.store)
}

// GetDeal returns one deal.
func (s *Service) GetDeal(ctx context.Context, id uint64) (deal.Deal, error) {
	if _, err := loadConfig(ctx, s.store); err != nil {
		return deal.Deal{}, err
	}
	return loadDeal(ctx, s.store, id)
}

// ListDeals returns deals in id order matching an optional filter.
func (s *Service) ListDeals(ctx context.Context, in ListDealsInput) (DealsPage, error) {
	if _, err := loadConfig(ctx, s.store); err != nil {
		return DealsPage{}, err
	}
	cond, err := filter.ParseDealFilter(in.Filter)
	if err != nil {
		return DealsPage{}, apperrors.Wrap(apperrors.CodeInvalidFilter, "invalid filter", err)
	}
	startID, err := pagination.DecodeCursor(in.PageToken)
	if err != nil {
		return DealsPage{}, apperrors.Wrap(apperrors.CodeInvalidPageToken, "invalid page token", err)
	}
	page, err := s.store.ListDeals(ctx, storage.ListDealsQuery{
		PageSize:  pagination.ClampPageSize(in.PageSize, pagination.PageSizeConfig{Default: defaultListDealsPageSize, Max: maxListDealsPageSize}),
		StartID:   startID,
		Condition: cond,
	})
	if err != nil {
		return DealsPage{}, err
	}
	out := DealsPage{Deals: page.Deals}
	if page.NextStartID != nil {
		out.NextPageToken = pagination.EncodeCursor(*page.NextStartID)
	}
	return out, nil
}

// ListTransfers returns the transfers recorded for one deal in execution order.
func (s *Service) ListTransfers(ctx context.Context, dealID uint64) ([]storage.TransferRecord, error) {
	if _, err := s.GetDeal(ctx, dealID); err != nil {
		return nil, err
	}
	return s.store.ListTransfers(ctx, dealID)
}

// Holdings returns the current custody balances.
func (s *Service) Holdings(ctx context.Context) (map[string]deal.Amount, error) {
	return s.store.Holdings(ctx)
}

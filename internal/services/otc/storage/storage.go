// Package storage defines persistence contracts for escrow state: the engine
// configuration, the deal ledger and its counter, custody holdings and the
// transfer outbox.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/storage/filter"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a singleton or keyed record was already written.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrConflict indicates a write lost a compare-and-set against current state.
	ErrConflict = errors.New("record changed concurrently")
	// ErrInsufficientHoldings indicates a custody debit would go below zero.
	ErrInsufficientHoldings = errors.New("insufficient custody holdings")
)

// TransferRecord is one executed transfer in the outbox.
type TransferRecord struct {
	Seq       uint64
	DealID    uint64
	Action    string
	ToAddress deal.Address
	Coin      deal.Coin
	RequestID string
	CreatedAt time.Time
}

// ListDealsQuery selects one page of deals in id order.
type ListDealsQuery struct {
	PageSize int
	// StartID is the smallest id to return.
	StartID   uint64
	Condition filter.Condition
}

// DealPage is one page of deals. NextStartID is set when more rows exist.
type DealPage struct {
	Deals       []deal.Deal
	NextStartID *uint64
}

// Reader exposes the read paths shared by transactions and the store.
type Reader interface {
	GetConfig(ctx context.Context) (deal.Config, error)
	GetDeal(ctx context.Context, id uint64) (deal.Deal, error)
	NextDealID(ctx context.Context) (uint64, error)
	Holding(ctx context.Context, denom string) (deal.Amount, error)
}

// CustodyWriter moves coins in and out of custody within a transaction.
type CustodyWriter interface {
	Credit(ctx context.Context, coin deal.Coin) error
	Debit(ctx context.Context, coin deal.Coin) error
	AppendTransfer(ctx context.Context, record TransferRecord) error
}

// Tx is the write surface of one atomic operation.
type Tx interface {
	Reader
	CustodyWriter
	// PutConfig stores the configuration and resets the counter to zero. It
	// returns ErrAlreadyExists when a configuration is present.
	PutConfig(ctx context.Context, cfg deal.Config) error
	// InsertDeal stores d and advances the counter. d.ID must equal the
	// current counter value or ErrConflict is returned.
	InsertDeal(ctx context.Context, d deal.Deal) error
	// UpdateDealStatus moves deal id from one status to another, returning
	// ErrConflict when the stored status is not from.
	UpdateDealStatus(ctx context.Context, id uint64, from, to deal.Status, at time.Time) error
}

// Store persists escrow state.
type Store interface {
	Reader
	ListDeals(ctx context.Context, query ListDealsQuery) (DealPage, error)
	ListTransfers(ctx context.Context, dealID uint64) ([]TransferRecord, error)
	Holdings(ctx context.Context) (map[string]deal.Amount, error)
	// InTx runs fn in one transaction, committing when fn returns nil and
	// rolling back otherwise.
	InTx(ctx context.Context, fn func(Tx) error) error
	Close() error
}

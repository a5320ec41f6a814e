package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/platform/requestctx"
	"github.com/nseguias/otc/internal/services/otc/custody"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/domain/lifecycle"
	"github.com/nseguias/otc/internal/services/otc/storage"
)

// InstantiateInput configures the engine once.
type InstantiateInput struct {
	DefaultTimeout *uint64
}

// CreateDealInput opens a deal escrowing the attached funds.
type CreateDealInput struct {
	Funds     []deal.Coin
	DenomIn   string
	AmountIn  deal.Amount
	DenomOut  string
	AmountOut deal.Amount
	Recipient *string
	Timeout   *uint64
}

// AcceptDealInput fills a deal with the attached funds.
type AcceptDealInput struct {
	Funds     []deal.Coin
	DealID    uint64
	DenomOut  string
	AmountOut deal.Amount
}

// DealInput addresses an existing deal for cancel and withdraw.
type DealInput struct {
	Funds  []deal.Coin
	DealID uint64
}

// Instantiate stores the engine configuration.
func (s *Service) Instantiate(ctx context.Context, in InstantiateInput) (_ Result, err error) {
	ctx, span := s.startSpan(ctx, lifecycle.ActionInstantiate)
	defer func() { endSpan(span, err) }()

	var attrs []deal.Attribute
	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		_, getErr := tx.GetConfig(ctx)
		if getErr != nil && !errors.Is(getErr, storage.ErrNotFound) {
			return fmt.Errorf("load config: %w", getErr)
		}
		cfg, decided, decideErr := lifecycle.Instantiate(getErr == nil, in.DefaultTimeout)
		if decideErr != nil {
			return decideErr
		}
		if err := tx.PutConfig(ctx, cfg); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return apperrors.Wrap(apperrors.CodeAlreadyInitialized, "engine already initialized", err)
			}
			return fmt.Errorf("put config: %w", err)
		}
		attrs = decided
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Attributes: attrs}, nil
}

// CreateDeal opens a new deal for the caller.
func (s *Service) CreateDeal(ctx context.Context, in CreateDealInput) (_ Result, err error) {
	ctx, span := s.startSpan(ctx, lifecycle.ActionCreateDeal)
	defer func() { endSpan(span, err) }()

	sender, err := s.sender(ctx)
	if err != nil {
		return Result{}, err
	}
	now := s.now()
	var decision lifecycle.Decision
	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		cfg, err := loadConfig(ctx, tx)
		if err != nil {
			return err
		}
		nextID, err := tx.NextDealID(ctx)
		if err != nil {
			return fmt.Errorf("load deal counter: %w", err)
		}
		decision, err = lifecycle.Create(cfg, nextID, lifecycle.CreateCommand{
			Sender:    sender,
			Funds:     in.Funds,
			DenomIn:   in.DenomIn,
			AmountIn:  in.AmountIn,
			DenomOut:  in.DenomOut,
			AmountOut: in.AmountOut,
			Recipient: in.Recipient,
			Timeout:   in.Timeout,
		}, s.validator, now)
		if err != nil {
			return err
		}
		if err := tx.InsertDeal(ctx, decision.Deal); err != nil {
			return fmt.Errorf("insert deal: %w", err)
		}
		return s.settle(ctx, tx, decision, now)
	})
	if err != nil {
		return Result{}, err
	}
	setDealID(span, decision.Deal.ID)
	return resultOf(decision), nil
}

// AcceptDeal executes an open deal with the caller as counterparty.
func (s *Service) AcceptDeal(ctx context.Context, in AcceptDealInput) (_ Result, err error) {
	ctx, span := s.startSpan(ctx, lifecycle.ActionAcceptDeal)
	defer func() { endSpan(span, err) }()
	setDealID(span, in.DealID)

	sender, err := s.sender(ctx)
	if err != nil {
		return Result{}, err
	}
	return s.transition(ctx, in.DealID, func(current deal.Deal, now time.Time) (lifecycle.Decision, error) {
		return lifecycle.Accept(current, lifecycle.AcceptCommand{
			Sender:    sender,
			Funds:     in.Funds,
			DealID:    in.DealID,
			DenomOut:  in.DenomOut,
			AmountOut: in.AmountOut,
		}, now)
	})
}

// CancelDeal returns a live deal's escrow to its creator.
func (s *Service) CancelDeal(ctx context.Context, in DealInput) (_ Result, err error) {
	ctx, span := s.startSpan(ctx, lifecycle.ActionCancelDeal)
	defer func() { endSpan(span, err) }()
	setDealID(span, in.DealID)

	sender, err := s.sender(ctx)
	if err != nil {
		return Result{}, err
	}
	return s.transition(ctx, in.DealID, func(current deal.Deal, now time.Time) (lifecycle.Decision, error) {
		return lifecycle.Cancel(current, lifecycle.CancelCommand{Sender: sender, Funds: in.Funds, DealID: in.DealID}, now)
	})
}

// Withdraw returns an expired deal's escrow to its creator.
func (s *Service) Withdraw(ctx context.Context, in DealInput) (_ Result, err error) {
	ctx, span := s.startSpan(ctx, lifecycle.ActionWithdraw)
	defer func() { endSpan(span, err) }()
	setDealID(span, in.DealID)

	sender, err := s.sender(ctx)
	if err != nil {
		return Result{}, err
	}
	return s.transition(ctx, in.DealID, func(current deal.Deal, now time.Time) (lifecycle.Decision, error) {
		return lifecycle.Withdraw(current, lifecycle.WithdrawCommand{Sender: sender, Funds: in.Funds, DealID: in.DealID}, now)
	})
}

type decideFunc func(current deal.Deal, now time.Time) (lifecycle.Decision, error)

// transition loads a deal, decides, and commits the status change with its
// settlement in one transaction.
func (s *Service) transition(ctx context.Context, id uint64, decide decideFunc) (Result, error) {
	now := s.now()
	var decision lifecycle.Decision
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		if _, err := loadConfig(ctx, tx); err != nil {
			return err
		}
		current, err := loadDeal(ctx, tx, id)
		if err != nil {
			return err
		}
		decision, err = decide(current, now)
		if err != nil {
			return err
		}
		if err := tx.UpdateDealStatus(ctx, id, current.Status, decision.Deal.Status, now); err != nil {
			return fmt.Errorf("update deal status: %w", err)
		}
		return s.settle(ctx, tx, decision, now)
	})
	if err != nil {
		return Result{}, err
	}
	return resultOf(decision), nil
}

func (s *Service) settle(ctx context.Context, tx storage.Tx, decision lifecycle.Decision, now time.Time) error {
	return s.custodian.Settle(ctx, tx, custody.Settlement{
		DealID:    decision.Deal.ID,
		Action:    decision.Action(),
		RequestID: requestctx.RequestIDFromContext(ctx),
		Deposits:  decision.Deposits,
		Transfers: decision.Transfers,
		At:        now,
	})
}

func resultOf(decision lifecycle.Decision) Result {
	d := decision.Deal
	return Result{
		Deal:       &d,
		Attributes: decision.Attributes,
		Transfers:  decision.Transfers,
	}
}

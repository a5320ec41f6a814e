package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/storage"
)

// Holding returns the custody balance for denom, zero when none was recorded.
func (r queries) Holding(ctx context.Context, denom string) (deal.Amount, error) {
	if err := ctx.Err(); err != nil {
		return deal.Amount{}, err
	}
	if r.q == nil {
		return deal.Amount{}, fmt.Errorf("storage is not configured")
	}
	var raw string
	err := r.q.QueryRowContext(ctx, `SELECT amount FROM custody_holdings WHERE denom = ?`, denom).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return deal.ZeroAmount, nil
		}
		return deal.Amount{}, fmt.Errorf("get holding %s: %w", denom, err)
	}
	amount, err := deal.ParseAmount(raw)
	if err != nil {
		return deal.Amount{}, fmt.Errorf("holding %s: %w", denom, err)
	}
	return amount, nil
}

// Holdings returns every recorded custody balance keyed by denom.
func (s *Store) Holdings(ctx context.Context) (map[string]deal.Amount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT denom, amount FROM custody_holdings ORDER BY denom`)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	defer rows.Close()

	holdings := make(map[string]deal.Amount)
	for rows.Next() {
		var denom, raw string
		if err := rows.Scan(&denom, &raw); err != nil {
			return nil, fmt.Errorf("list holdings: %w", err)
		}
		amount, err := deal.ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("holding %s: %w", denom, err)
		}
		holdings[denom] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	return holdings, nil
}

// ListTransfers returns the outbox entries for one deal in execution order.
func (s *Store) ListTransfers(ctx context.Context, dealID uint64) ([]storage.TransferRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, deal_id, action, to_address, denom, amount, request_id, created_at
		 FROM transfer_outbox WHERE deal_id = ? ORDER BY seq ASC`,
		int64(dealID),
	)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var records []storage.TransferRecord
	for rows.Next() {
		var (
			record               storage.TransferRecord
			seq, id, createdAt   int64
			toAddress, rawAmount string
		)
		if err := rows.Scan(&seq, &id, &record.Action, &toAddress, &record.Coin.Denom, &rawAmount, &record.RequestID, &createdAt); err != nil {
			return nil, fmt.Errorf("list transfers: %w", err)
		}
		amount, err := deal.ParseAmount(rawAmount)
		if err != nil {
			return nil, fmt.Errorf("transfer %d amount: %w", seq, err)
		}
		record.Seq = uint64(seq)
		record.DealID = uint64(id)
		record.ToAddress = deal.Address(toAddress)
		record.Coin.Amount = amount
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return records, nil
}

// Credit adds coin to custody.
func (t *txStore) Credit(ctx context.Context, coin deal.Coin) error {
	current, err := t.Holding(ctx, coin.Denom)
	if err != nil {
		return err
	}
	next, err := current.Add(coin.Amount)
	if err != nil {
		return fmt.Errorf("credit %s: %w", coin, err)
	}
	return t.putHolding(ctx, coin.Denom, next)
}

// Debit removes coin from custody, failing with
// storage.ErrInsufficientHoldings when the balance is short.
func (t *txStore) Debit(ctx context.Context, coin deal.Coin) error {
	current, err := t.Holding(ctx, coin.Denom)
	if err != nil {
		return err
	}
	if current.Cmp(coin.Amount) < 0 {
		return fmt.Errorf("debit %s from %s%s: %w", coin, current, coin.Denom, storage.ErrInsufficientHoldings)
	}
	next, err := current.Sub(coin.Amount)
	if err != nil {
		return fmt.Errorf("debit %s: %w", coin, err)
	}
	return t.putHolding(ctx, coin.Denom, next)
}

func (t *txStore) putHolding(ctx context.Context, denom string, amount deal.Amount) error {
	if strings.TrimSpace(denom) == "" {
		return fmt.Errorf("denom is required")
	}
	if _, err := t.q.ExecContext(ctx,
		`INSERT INTO custody_holdings (denom, amount) VALUES (?, ?)
		 ON CONFLICT (denom) DO UPDATE SET amount = excluded.amount`,
		denom, amount.String(),
	); err != nil {
		return fmt.Errorf("put holding %s: %w", denom, err)
	}
	return nil
}

// AppendTransfer records an executed transfer in the outbox.
func (t *txStore) AppendTransfer(ctx context.Context, record storage.TransferRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = t.now()
	}
	if _, err := t.q.ExecContext(ctx,
		`INSERT INTO transfer_outbox (deal_id, action, to_address, denom, amount, request_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(record.DealID),
		record.Action,
		record.ToAddress.String(),
		record.Coin.Denom,
		record.Coin.Amount.String(),
		record.RequestID,
		toMillis(createdAt),
	); err != nil {
		return fmt.Errorf("append transfer for deal %d: %w", record.DealID, err)
	}
	return nil
}

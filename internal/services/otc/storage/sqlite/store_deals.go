package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/storage"
)

const dealColumns = `id, creator, recipient, denom_in, amount_in, denom_out, amount_out, status, timeout, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// GetConfig returns the engine configuration or storage.ErrNotFound.
func (r queries) GetConfig(ctx context.Context) (deal.Config, error) {
	if err := ctx.Err(); err != nil {
		return deal.Config{}, err
	}
	if r.q == nil {
		return deal.Config{}, fmt.Errorf("storage is not configured")
	}
	var timeout int64
	err := r.q.QueryRowContext(ctx, `SELECT default_timeout FROM otc_config WHERE id = 1`).Scan(&timeout)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return deal.Config{}, storage.ErrNotFound
		}
		return deal.Config{}, fmt.Errorf("get config: %w", err)
	}
	return deal.Config{DefaultTimeout: uint64(timeout)}, nil
}

// NextDealID returns the id the next created deal will take.
func (r queries) NextDealID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if r.q == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var next int64
	err := r.q.QueryRowContext(ctx, `SELECT next_deal_id FROM deal_counter WHERE id = 1`).Scan(&next)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("get deal counter: %w", err)
	}
	return uint64(next), nil
}

// GetDeal returns one deal by id.
func (r queries) GetDeal(ctx context.Context, id uint64) (deal.Deal, error) {
	if err := ctx.Err(); err != nil {
		return deal.Deal{}, err
	}
	if r.q == nil {
		return deal.Deal{}, fmt.Errorf("storage is not configured")
	}
	row := r.q.QueryRowContext(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = ?`, int64(id))
	d, err := scanDeal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return deal.Deal{}, storage.ErrNotFound
		}
		return deal.Deal{}, fmt.Errorf("get deal %d: %w", id, err)
	}
	return d, nil
}

// ListDeals returns one page of deals with id >= query.StartID.
func (s *Store) ListDeals(ctx context.Context, query storage.ListDealsQuery) (storage.DealPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.DealPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.DealPage{}, fmt.Errorf("storage is not configured")
	}
	if query.PageSize <= 0 {
		return storage.DealPage{}, fmt.Errorf("page size must be greater than zero")
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + dealColumns + ` FROM deals WHERE id >= ?`)
	args := []any{int64(query.StartID)}
	if !query.Condition.Empty() {
		sb.WriteString(` AND ` + query.Condition.Clause)
		args = append(args, query.Condition.Params...)
	}
	sb.WriteString(` ORDER BY id ASC LIMIT ?`)
	args = append(args, query.PageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return storage.DealPage{}, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	page := storage.DealPage{Deals: make([]deal.Deal, 0, query.PageSize)}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return storage.DealPage{}, fmt.Errorf("list deals: %w", err)
		}
		page.Deals = append(page.Deals, d)
	}
	if err := rows.Err(); err != nil {
		return storage.DealPage{}, fmt.Errorf("list deals: %w", err)
	}
	if len(page.Deals) > query.PageSize {
		next := page.Deals[query.PageSize].ID
		page.NextStartID = &next
		page.Deals = page.Deals[:query.PageSize]
	}
	return page, nil
}

// PutConfig stores the configuration and initializes the counter at zero.
func (t *txStore) PutConfig(ctx context.Context, cfg deal.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cfg.DefaultTimeout == 0 {
		return fmt.Errorf("default timeout must be greater than zero")
	}
	if _, err := t.q.ExecContext(ctx,
		`INSERT INTO otc_config (id, default_timeout, created_at) VALUES (1, ?, ?)`,
		int64(cfg.DefaultTimeout), toMillis(t.now()),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put config: %w", err)
	}
	if _, err := t.q.ExecContext(ctx,
		`INSERT INTO deal_counter (id, next_deal_id) VALUES (1, 0)
		 ON CONFLICT (id) DO UPDATE SET next_deal_id = 0`,
	); err != nil {
		return fmt.Errorf("init deal counter: %w", err)
	}
	return nil
}

// InsertDeal stores d when d.ID matches the counter, then advances it.
func (t *txStore) InsertDeal(ctx context.Context, d deal.Deal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next, err := t.NextDealID(ctx)
	if err != nil {
		return err
	}
	if d.ID != next {
		return fmt.Errorf("insert deal %d with counter at %d: %w", d.ID, next, storage.ErrConflict)
	}
	if d.Status != deal.StatusOpen {
		return fmt.Errorf("new deal must be open, got %s", d.Status)
	}

	var recipient any
	if d.Recipient != nil {
		recipient = d.Recipient.String()
	}
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = t.now()
	}
	if _, err := t.q.ExecContext(ctx,
		`INSERT INTO deals (
		   id, creator, recipient, denom_in, amount_in, denom_out, amount_out,
		   status, timeout, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(d.ID),
		d.Creator.String(),
		recipient,
		d.DenomIn,
		d.AmountIn.String(),
		d.DenomOut,
		d.AmountOut.String(),
		d.Status.String(),
		d.Timeout.Unix(),
		toMillis(createdAt),
		toMillis(createdAt),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert deal %d: %w", d.ID, err)
	}

	result, err := t.q.ExecContext(ctx,
		`UPDATE deal_counter SET next_deal_id = next_deal_id + 1 WHERE id = 1 AND next_deal_id = ?`,
		int64(next),
	)
	if err != nil {
		return fmt.Errorf("advance deal counter: %w", err)
	}
	return expectOneRow(result, "advance deal counter")
}

// UpdateDealStatus applies a compare-and-set status change.
func (t *txStore) UpdateDealStatus(ctx context.Context, id uint64, from, to deal.Status, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("deal %d cannot move from %s to %s", id, from, to)
	}
	if at.IsZero() {
		at = t.now()
	}
	result, err := t.q.ExecContext(ctx,
		`UPDATE deals SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to.String(), toMillis(at), int64(id), from.String(),
	)
	if err != nil {
		return fmt.Errorf("update deal %d status: %w", id, err)
	}
	return expectOneRow(result, fmt.Sprintf("update deal %d status", id))
}

func expectOneRow(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected != 1 {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	return nil
}

func scanDeal(row rowScanner) (deal.Deal, error) {
	var (
		d                   deal.Deal
		id                  int64
		creator             string
		recipient           sql.NullString
		amountIn, amountOut string
		status              string
		timeout, createdAt  int64
	)
	if err := row.Scan(&id, &creator, &recipient, &d.DenomIn, &amountIn, &d.DenomOut, &amountOut, &status, &timeout, &createdAt); err != nil {
		return deal.Deal{}, err
	}
	d.ID = uint64(id)
	d.Creator = deal.Address(creator)
	if recipient.Valid {
		addr := deal.Address(recipient.String)
		d.Recipient = &addr
	}
	var err error
	if d.AmountIn, err = deal.ParseAmount(amountIn); err != nil {
		return deal.Deal{}, fmt.Errorf("deal %d amount_in: %w", id, err)
	}
	if d.AmountOut, err = deal.ParseAmount(amountOut); err != nil {
		return deal.Deal{}, fmt.Errorf("deal %d amount_out: %w", id, err)
	}
	if d.Status, err = deal.ParseStatus(status); err != nil {
		return deal.Deal{}, fmt.Errorf("deal %d status: %w", id, err)
	}
	d.Timeout = time.Unix(timeout, 0).UTC()
	d.CreatedAt = fromMillis(createdAt)
	return d, nil
}

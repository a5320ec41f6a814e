// Package custody moves coins through the escrow's holdings and records
// every release in the transfer outbox.
package custody

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/storage"
)

// Settlement is one operation's movement of funds.
type Settlement struct {
	DealID    uint64
	Action    string
	RequestID string
	Deposits  []deal.Coin
	Transfers []deal.Transfer
	At        time.Time
}

// Custodian applies settlements inside a storage transaction.
type Custodian interface {
	Settle(ctx context.Context, tx storage.CustodyWriter, settlement Settlement) error
}

// Ledger is the storage-backed Custodian. Deposits are credited before any
// transfer is debited so a deal's own payment can fund its release.
type Ledger struct{}

// NewLedger returns a ledger custodian.
func NewLedger() Ledger {
	return Ledger{}
}

// Settle credits deposits, then debits and records each transfer in order.
func (Ledger) Settle(ctx context.Context, tx storage.CustodyWriter, settlement Settlement) error {
	if tx == nil {
		return fmt.Errorf("custody writer is required")
	}
	for _, coin := range settlement.Deposits {
		if err := tx.Credit(ctx, coin); err != nil {
			return fmt.Errorf("deposit %s: %w", coin, err)
		}
	}
	for _, transfer := range settlement.Transfers {
		if err := tx.Debit(ctx, transfer.Coin); err != nil {
			if errors.Is(err, storage.ErrInsufficientHoldings) {
				insufficient := apperrors.Wrap(apperrors.CodeCustodyInsufficient, "custody holdings are insufficient", err)
				insufficient.Metadata = map[string]string{"denom": transfer.Coin.Denom}
				return insufficient
			}
			return fmt.Errorf("release %s to %s: %w", transfer.Coin, transfer.ToAddress, err)
		}
		if err := tx.AppendTransfer(ctx, storage.TransferRecord{
			DealID:    settlement.DealID,
			Action:    settlement.Action,
			ToAddress: transfer.ToAddress,
			Coin:      transfer.Coin,
			RequestID: settlement.RequestID,
			CreatedAt: settlement.At,
		}); err != nil {
			return fmt.Errorf("record transfer: %w", err)
		}
	}
	return nil
}

// Package maintenance audits an OTC ledger offline.
package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nseguias/otc/internal/platform/config"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/storage"
	otcsqlite "github.com/nseguias/otc/internal/services/otc/storage/sqlite"
)

const auditPageSize = 200

// ErrLedgerMismatch reports that custody holdings differ from open escrow.
var ErrLedgerMismatch = errors.New("custody holdings do not match open escrow")

// Config holds maintenance command configuration.
type Config struct {
	DBPath     string        `env:"DB_PATH"`
	Timeout    time.Duration `env:"MAINTENANCE_TIMEOUT" envDefault:"1m"`
	JSONOutput bool
	// DealID selects the deal for TransfersReport.
	DealID          uint64
	TransfersReport bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "otc.db")
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to the OTC sqlite database (default: OTC_DB_PATH or data/otc.db)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON reports")
	fs.BoolVar(&cfg.TransfersReport, "transfers", false, "print the transfer outbox of -deal-id instead of auditing")
	fs.Uint64Var(&cfg.DealID, "deal-id", 0, "deal id for -transfers")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DenomAudit compares one denomination's holdings to its open escrow.
type DenomAudit struct {
	Denom    string `json:"denom"`
	Escrowed string `json:"escrowed"`
	Held     string `json:"held"`
	OK       bool   `json:"ok"`
}

// AuditReport summarizes a ledger audit.
type AuditReport struct {
	Deals     int          `json:"deals"`
	OpenDeals int          `json:"open_deals"`
	Denoms    []DenomAudit `json:"denoms"`
	OK        bool         `json:"ok"`
}

type auditStore interface {
	ListDeals(ctx context.Context, query storage.ListDealsQuery) (storage.DealPage, error)
	Holdings(ctx context.Context) (map[string]deal.Amount, error)
}

// Audit checks that every denomination held in custody equals the escrow of
// the open deals in that denomination.
func Audit(ctx context.Context, store auditStore) (AuditReport, error) {
	if store == nil {
		return AuditReport{}, errors.New("store is required")
	}
	escrowed := make(map[string]deal.Amount)
	report := AuditReport{}

	query := storage.ListDealsQuery{PageSize: auditPageSize}
	for {
		page, err := store.ListDeals(ctx, query)
		if err != nil {
			return AuditReport{}, fmt.Errorf("list deals: %w", err)
		}
		for _, d := range page.Deals {
			report.Deals++
			if d.Status != deal.StatusOpen {
				continue
			}
			report.OpenDeals++
			total, err := escrowed[d.DenomIn].Add(d.AmountIn)
			if err != nil {
				return AuditReport{}, fmt.Errorf("sum escrow for %s: %w", d.DenomIn, err)
			}
			escrowed[d.DenomIn] = total
		}
		if page.NextStartID == nil {
			break
		}
		query.StartID = *page.NextStartID
	}

	holdings, err := store.Holdings(ctx)
	if err != nil {
		return AuditReport{}, fmt.Errorf("load holdings: %w", err)
	}

	denoms := make(map[string]struct{}, len(escrowed)+len(holdings))
	for denom := range escrowed {
		denoms[denom] = struct{}{}
	}
	for denom := range holdings {
		denoms[denom] = struct{}{}
	}
	names := make([]string, 0, len(denoms))
	for denom := range denoms {
		names = append(names, denom)
	}
	sort.Strings(names)

	report.OK = true
	for _, denom := range names {
		expected := escrowed[denom]
		held := holdings[denom]
		entry := DenomAudit{
			Denom:    denom,
			Escrowed: expected.String(),
			Held:     held.String(),
			OK:       expected.Equal(held),
		}
		if !entry.OK {
			report.OK = false
		}
		report.Denoms = append(report.Denoms, entry)
	}
	return report, nil
}

// Run executes the maintenance command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if _, err := os.Stat(cfg.DBPath); err != nil {
		return fmt.Errorf("open ledger %s: %w", cfg.DBPath, err)
	}
	store, err := otcsqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			fmt.Fprintf(errOut, "close store: %v\n", closeErr)
		}
	}()

	if cfg.TransfersReport {
		return printTransfers(ctx, store, cfg, out)
	}

	report, err := Audit(ctx, store)
	if err != nil {
		return err
	}
	if cfg.JSONOutput {
		if err := json.NewEncoder(out).Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		fmt.Fprintf(out, "deals=%d open=%d\n", report.Deals, report.OpenDeals)
		for _, entry := range report.Denoms {
			state := "ok"
			if !entry.OK {
				state = "MISMATCH"
			}
			fmt.Fprintf(out, "%s escrowed=%s held=%s %s\n", entry.Denom, entry.Escrowed, entry.Held, state)
		}
	}
	if !report.OK {
		return ErrLedgerMismatch
	}
	return nil
}

func printTransfers(ctx context.Context, store *otcsqlite.Store, cfg Config, out io.Writer) error {
	records, err := store.ListTransfers(ctx, cfg.DealID)
	if err != nil {
		return fmt.Errorf("list transfers: %w", err)
	}
	if cfg.JSONOutput {
		if err := json.NewEncoder(out).Encode(records); err != nil {
			return fmt.Errorf("encode transfers: %w", err)
		}
		return nil
	}
	if len(records) == 0 {
		fmt.Fprintf(out, "deal %d has no transfers\n", cfg.DealID)
		return nil
	}
	for _, record := range records {
		fmt.Fprintf(out, "%d %s %s %s %s %s\n",
			record.Seq,
			record.CreatedAt.UTC().Format(time.RFC3339),
			record.Action,
			record.ToAddress,
			record.Coin.Amount,
			record.Coin.Denom,
		)
	}
	return nil
}

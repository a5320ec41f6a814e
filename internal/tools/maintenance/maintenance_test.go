package maintenance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nseguias/otc/internal/platform/requestctx"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/escrow"
	"github.com/nseguias/otc/internal/services/otc/identity"
	"github.com/nseguias/otc/internal/services/otc/storage"
	otcsqlite "github.com/nseguias/otc/internal/services/otc/storage/sqlite"
)

// seedLedger creates two deals, accepts the first and leaves the second open.
func seedLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "otc.db")
	store, err := otcsqlite.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	svc, err := escrow.New(store, identity.Plain{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	if _, err := svc.Instantiate(ctx, escrow.InstantiateInput{}); err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	alice := requestctx.WithSender(ctx, "alice")
	for _, amount := range []string{"100", "40"} {
		if _, err := svc.CreateDeal(alice, escrow.CreateDealInput{
			Funds:     []deal.Coin{{Denom: "A", Amount: deal.MustAmount(amount)}},
			DenomIn:   "A",
			AmountIn:  deal.MustAmount(amount),
			DenomOut:  "B",
			AmountOut: deal.MustAmount("10"),
		}); err != nil {
			t.Fatalf("create deal: %v", err)
		}
	}
	bob := requestctx.WithSender(ctx, "bob")
	if _, err := svc.AcceptDeal(bob, escrow.AcceptDealInput{
		Funds:     []deal.Coin{{Denom: "B", Amount: deal.MustAmount("10")}},
		DealID:    0,
		DenomOut:  "B",
		AmountOut: deal.MustAmount("10"),
	}); err != nil {
		t.Fatalf("accept deal: %v", err)
	}
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("maintenance", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != filepath.Join("data", "otc.db") {
		t.Fatalf("db path = %q, want data/otc.db", cfg.DBPath)
	}
	if cfg.Timeout.String() != "1m0s" {
		t.Fatalf("timeout = %s, want 1m0s", cfg.Timeout)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("OTC_DB_PATH", "/tmp/env.db")
	fs := flag.NewFlagSet("maintenance", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-transfers", "-deal-id", "7", "-json"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/env.db" || !cfg.TransfersReport || cfg.DealID != 7 || !cfg.JSONOutput {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestRunAuditConsistentLedger(t *testing.T) {
	path := seedLedger(t)
	var out bytes.Buffer
	if err := Run(context.Background(), Config{DBPath: path}, &out, nil); err != nil {
		t.Fatalf("run: %v\n%s", err, out.String())
	}
	text := out.String()
	if !strings.Contains(text, "deals=2 open=1") {
		t.Fatalf("output = %q, want deal counts", text)
	}
	if !strings.Contains(text, "A escrowed=40 held=40 ok") {
		t.Fatalf("output = %q, want A line", text)
	}
	if !strings.Contains(text, "B escrowed=0 held=0 ok") {
		t.Fatalf("output = %q, want B line", text)
	}
}

func TestRunAuditDetectsMismatch(t *testing.T) {
	path := seedLedger(t)
	store, err := otcsqlite.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	err = store.InTx(context.Background(), func(tx storage.Tx) error {
		return tx.Credit(context.Background(), deal.Coin{Denom: "A", Amount: deal.MustAmount("1")})
	})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	var out bytes.Buffer
	err = Run(context.Background(), Config{DBPath: path, JSONOutput: true}, &out, nil)
	if !errors.Is(err, ErrLedgerMismatch) {
		t.Fatalf("err = %v, want ErrLedgerMismatch", err)
	}
	var report AuditReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.OK || len(report.Denoms) == 0 || report.Denoms[0].Held != "41" {
		t.Fatalf("report = %+v", report)
	}
}

func TestRunTransfersReport(t *testing.T) {
	path := seedLedger(t)
	var out bytes.Buffer
	if err := Run(context.Background(), Config{DBPath: path, TransfersReport: true, DealID: 0}, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2 transfers", lines)
	}
	if !strings.Contains(lines[0], "accept_deal") {
		t.Fatalf("line = %q, want accept_deal", lines[0])
	}

	out.Reset()
	if err := Run(context.Background(), Config{DBPath: path, TransfersReport: true, DealID: 1}, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "deal 1 has no transfers") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunMissingDatabase(t *testing.T) {
	err := Run(context.Background(), Config{DBPath: filepath.Join(t.TempDir(), "missing.db")}, nil, nil)
	if err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestAuditRequiresStore(t *testing.T) {
	if _, err := Audit(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}

// Command seed creates the FirmBooks schema and a pair of demo firms
// with a few balanced postings, for local development.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/firmbooks/firmbooks/internal/app"
	"github.com/firmbooks/firmbooks/internal/ledger"
	"github.com/firmbooks/firmbooks/internal/platform/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	id BIGSERIAL PRIMARY KEY,
	tenant_id BIGINT NOT NULL,
	voucher_id UUID NOT NULL,
	voucher_type TEXT NOT NULL,
	voucher_no TEXT NOT NULL,
	account_head TEXT NOT NULL,
	account_type TEXT NOT NULL DEFAULT 'GENERAL',
	debit_amount NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (debit_amount >= 0),
	credit_amount NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (credit_amount >= 0),
	narration TEXT NOT NULL DEFAULT '',
	transaction_date DATE NOT NULL,
	created_by BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK (debit_amount = 0 OR credit_amount = 0)
);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_tenant_voucher ON ledger_entries (tenant_id, voucher_id);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_tenant_account ON ledger_entries (tenant_id, account_head, transaction_date);

CREATE TABLE IF NOT EXISTS voucher_sequences (
	tenant_id BIGINT NOT NULL,
	voucher_type TEXT NOT NULL,
	next_no BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (tenant_id, voucher_type)
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id BIGSERIAL PRIMARY KEY,
	tenant_id BIGINT NOT NULL,
	actor_id BIGINT NOT NULL DEFAULT 0,
	action TEXT NOT NULL,
	entity TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	meta JSONB,
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func main() {
	logger := slog.Default()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Error("apply schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("schema applied")

	repo := ledger.NewRepository(pool)
	service := ledger.NewService(repo, ledger.NewPGSequencer(pool), nil)

	date := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}

	seeds := []ledger.PostingInput{
		{
			TenantID:        1,
			ActorID:         1,
			VoucherType:     ledger.VoucherTypeJournal,
			TransactionDate: date("2024-01-01"),
			Narration:       "Opening capital",
			Lines: []ledger.LineInput{
				{AccountHead: "Cash", AccountType: ledger.AccountTypeCash, Debit: 50000},
				{AccountHead: "Capital", AccountType: ledger.AccountTypeGeneral, Credit: 50000},
			},
		},
		{
			TenantID:        1,
			ActorID:         1,
			VoucherType:     ledger.VoucherTypeSales,
			TransactionDate: date("2024-01-05"),
			Narration:       "First sale",
			Lines: []ledger.LineInput{
				{AccountHead: "Cash", AccountType: ledger.AccountTypeCash, Debit: 1200},
				{AccountHead: "Sales", AccountType: ledger.AccountTypeGeneral, Credit: 1200},
			},
		},
		{
			TenantID:        2,
			ActorID:         2,
			VoucherType:     ledger.VoucherTypePayment,
			TransactionDate: date("2024-01-03"),
			Narration:       "Office rent",
			Lines: []ledger.LineInput{
				{AccountHead: "Rent", AccountType: ledger.AccountTypeGeneral, Debit: 8000},
				{AccountHead: "Bank", AccountType: ledger.AccountTypeBank, Credit: 8000},
			},
		},
	}

	for _, in := range seeds {
		receipt, err := service.CreatePosting(ctx, in)
		if err != nil {
			logger.Error("seed posting", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("seeded posting",
			slog.Int64("tenant_id", in.TenantID),
			slog.String("voucher_no", receipt.VoucherNo))
	}
}

package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firmbooks/firmbooks/internal/ledger"
	_ "github.com/firmbooks/firmbooks/testing"
)

// scanRepo serves exactly what the integrity scan reads: the tenant
// list and per-tenant account summaries.
type scanRepo struct {
	summaries map[int64][]ledger.AccountSummary
}

func (r *scanRepo) WithTx(context.Context, func(context.Context, ledger.TxRepository) error) error {
	panic("integrity scan must not write")
}

func (r *scanRepo) ListVouchers(context.Context, int64, ledger.ListPostingsQuery) ([]ledger.VoucherSummary, int, error) {
	return nil, 0, nil
}

func (r *scanRepo) AccountSummaries(_ context.Context, tenantID int64, _ ledger.DateRange) ([]ledger.AccountSummary, error) {
	return r.summaries[tenantID], nil
}

func (r *scanRepo) SuggestAccounts(context.Context, int64, string, int) ([]ledger.AccountRef, error) {
	return nil, nil
}

func (r *scanRepo) AccountEntries(context.Context, int64, string, ledger.DateRange) ([]ledger.Entry, error) {
	return nil, nil
}

func (r *scanRepo) AccountExists(context.Context, int64, string) (bool, error) {
	return false, nil
}

func (r *scanRepo) TenantIDs(context.Context) ([]int64, error) {
	tenants := make([]int64, 0, len(r.summaries))
	for id := range r.summaries {
		tenants = append(tenants, id)
	}
	return tenants, nil
}

func balancedAccounts() []ledger.AccountSummary {
	return []ledger.AccountSummary{
		{AccountHead: "Cash", TotalDebit: 1000, TotalCredit: 400, Balance: 600},
		{AccountHead: "Capital", TotalDebit: 0, TotalCredit: 1000, Balance: -1000},
		{AccountHead: "Rent", TotalDebit: 400, TotalCredit: 0, Balance: 400},
	}
}

func corruptedAccounts() []ledger.AccountSummary {
	return []ledger.AccountSummary{
		{AccountHead: "Cash", TotalDebit: 1000, Balance: 1000},
		{AccountHead: "Capital", TotalCredit: 700, Balance: -700},
	}
}

func TestIntegrityScan(t *testing.T) {
	repo := &scanRepo{summaries: map[int64][]ledger.AccountSummary{
		1: balancedAccounts(),
		2: corruptedAccounts(),
		3: balancedAccounts(),
		4: nil, // tenant with no postings is trivially balanced
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := NewIntegrityJob(repo, ledger.NewStatements(repo), logger, nil)

	unbalanced, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, unbalanced)
}

func TestIntegrityScanAllClean(t *testing.T) {
	repo := &scanRepo{summaries: map[int64][]ledger.AccountSummary{
		1: balancedAccounts(),
		2: balancedAccounts(),
	}}
	job := NewIntegrityJob(repo, ledger.NewStatements(repo), nil, nil)

	unbalanced, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, unbalanced)
}

func TestIntegrityTaskPayload(t *testing.T) {
	task := NewLedgerIntegrityTask()
	require.Equal(t, TaskLedgerIntegrity, task.Type())
}

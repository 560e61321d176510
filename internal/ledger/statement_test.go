package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// seedVouchers posts a small two-account history for tenant 1: cash
// receives 1000, then pays out 400, leaving a 600 closing balance.
func seedVouchers(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	deposit := PostingInput{
		TenantID:        1,
		ActorID:         7,
		TransactionDate: day("2024-01-10"),
		Narration:       "capital introduced",
		Lines: []LineInput{
			{AccountHead: "Cash", AccountType: AccountTypeCash, Debit: 1000},
			{AccountHead: "Capital", Credit: 1000},
		},
	}
	_, err := svc.CreatePosting(ctx, deposit)
	require.NoError(t, err)

	payment := PostingInput{
		TenantID:        1,
		ActorID:         7,
		VoucherType:     VoucherTypePayment,
		TransactionDate: day("2024-01-20"),
		Narration:       "office rent",
		Lines: []LineInput{
			{AccountHead: "Rent", Debit: 400},
			{AccountHead: "Cash", AccountType: AccountTypeCash, Credit: 400},
		},
	}
	_, err = svc.CreatePosting(ctx, payment)
	require.NoError(t, err)
}

func TestAccountStatementRunningBalance(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	seedVouchers(t, svc)

	stmt, err := NewStatements(repo).AccountStatement(context.Background(), 1, "Cash", DateRange{})
	require.NoError(t, err)

	require.Equal(t, "Cash", stmt.AccountHead)
	require.Equal(t, 1000.0, stmt.TotalDebit)
	require.Equal(t, 400.0, stmt.TotalCredit)
	require.Equal(t, 600.0, stmt.ClosingBalance)

	// Display order is newest first, but the balances were accumulated
	// forward: the oldest line shows 1000, the latest one 600.
	require.Len(t, stmt.Lines, 2)
	require.Equal(t, day("2024-01-20"), stmt.Lines[0].TransactionDate)
	require.Equal(t, 600.0, stmt.Lines[0].RunningBalance)
	require.Equal(t, day("2024-01-10"), stmt.Lines[1].TransactionDate)
	require.Equal(t, 1000.0, stmt.Lines[1].RunningBalance)
	require.Equal(t, stmt.ClosingBalance, stmt.Lines[0].RunningBalance,
		"closing balance matches the newest line")
}

func TestAccountStatementDateRange(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	seedVouchers(t, svc)
	b := NewStatements(repo)

	from, to := day("2024-01-15"), day("2024-01-31")
	stmt, err := b.AccountStatement(context.Background(), 1, "Cash", DateRange{From: &from, To: &to})
	require.NoError(t, err)

	// Only the payment falls in range; the balance starts from zero
	// within the window rather than carrying an opening balance.
	require.Len(t, stmt.Lines, 1)
	require.Equal(t, -400.0, stmt.ClosingBalance)

	// Account exists but has no entries in a far-future window.
	later := day("2025-01-01")
	empty, err := b.AccountStatement(context.Background(), 1, "Cash", DateRange{From: &later})
	require.NoError(t, err)
	require.Empty(t, empty.Lines)
	require.Zero(t, empty.ClosingBalance)
}

func TestAccountStatementUnknownAccount(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	seedVouchers(t, svc)
	b := NewStatements(repo)

	_, err := b.AccountStatement(context.Background(), 1, "Petty Cash", DateRange{})
	require.ErrorIs(t, err, ErrAccountNotFound)

	// Tenant 2 never posted to Cash; the head must look unknown to it.
	_, err = b.AccountStatement(context.Background(), 2, "Cash", DateRange{})
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = b.AccountStatement(context.Background(), 0, "Cash", DateRange{})
	require.ErrorIs(t, err, ErrNoTenant)
}

func TestTrialBalance(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	seedVouchers(t, svc)

	tb, err := NewStatements(repo).TrialBalance(context.Background(), 1, DateRange{})
	require.NoError(t, err)

	require.True(t, tb.Balanced)
	require.Equal(t, 1400.0, tb.TotalDebit)
	require.Equal(t, 1400.0, tb.TotalCredit)
	require.Len(t, tb.Accounts, 3)

	byHead := map[string]AccountSummary{}
	for _, acc := range tb.Accounts {
		byHead[acc.AccountHead] = acc
	}
	require.Equal(t, 600.0, byHead["Cash"].Balance)
	require.Equal(t, -1000.0, byHead["Capital"].Balance, "net credit balances are negative")
	require.Equal(t, 400.0, byHead["Rent"].Balance)
}

func TestTrialBalanceDetectsImbalance(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	seedVouchers(t, svc)

	// Simulate corruption: drop one side of a voucher directly in the
	// store, bypassing posting validation.
	repo.mu.Lock()
	kept := repo.entries[:0]
	for _, e := range repo.entries {
		if e.AccountHead != "Rent" {
			kept = append(kept, e)
		}
	}
	repo.entries = kept
	repo.mu.Unlock()

	tb, err := NewStatements(repo).TrialBalance(context.Background(), 1, DateRange{})
	require.NoError(t, err)
	require.False(t, tb.Balanced)
	require.Equal(t, 1000.0, tb.TotalDebit)
	require.Equal(t, 1400.0, tb.TotalCredit)
}

func TestGeneralLedger(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	seedVouchers(t, svc)

	gl, err := NewStatements(repo).GeneralLedger(context.Background(), 1, DateRange{})
	require.NoError(t, err)
	require.Equal(t, 1400.0, gl.TotalDebit)
	require.Equal(t, 1400.0, gl.TotalCredit)
	require.Len(t, gl.Accounts, 3)
}

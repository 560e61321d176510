package ledger

import (
	"context"
	"math"
)

// Statements produces ordered report views with running balances over
// the ledger store. It never mutates state.
type Statements struct {
	repo Repository
}

// NewStatements constructs the statement builder.
func NewStatements(repo Repository) *Statements {
	return &Statements{repo: repo}
}

// AccountStatement builds the statement for one account head. Entries
// are fetched in ascending chronological order and the running balance is
// accumulated forward; only the finished sequence is reversed for
// most-recent-first display. Accumulating against a descending fetch
// would produce totals that never existed historically.
func (b *Statements) AccountStatement(ctx context.Context, tenantID int64, accountHead string, dr DateRange) (Statement, error) {
	if tenantID == 0 {
		return Statement{}, ErrNoTenant
	}
	if accountHead == "" {
		return Statement{}, ErrAccountNotFound
	}
	entries, err := b.repo.AccountEntries(ctx, tenantID, accountHead, dr)
	if err != nil {
		return Statement{}, err
	}
	if len(entries) == 0 {
		exists, err := b.repo.AccountExists(ctx, tenantID, accountHead)
		if err != nil {
			return Statement{}, err
		}
		if !exists {
			return Statement{}, ErrAccountNotFound
		}
	}

	stmt := Statement{AccountHead: accountHead}
	var running float64
	lines := make([]StatementLine, 0, len(entries))
	for _, e := range entries {
		running += e.Debit - e.Credit
		stmt.TotalDebit += e.Debit
		stmt.TotalCredit += e.Credit
		lines = append(lines, StatementLine{Entry: e, RunningBalance: running})
	}
	stmt.ClosingBalance = running

	// Reverse only after the forward pass: the balances stay intact,
	// the display order becomes newest first.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	stmt.Lines = lines
	return stmt, nil
}

// TrialBalance aggregates every account of the tenant and checks that
// total debits equal total credits. An unbalanced result indicates data
// corruption, since every posting is individually balanced on write.
func (b *Statements) TrialBalance(ctx context.Context, tenantID int64, dr DateRange) (TrialBalance, error) {
	if tenantID == 0 {
		return TrialBalance{}, ErrNoTenant
	}
	accounts, err := b.repo.AccountSummaries(ctx, tenantID, dr)
	if err != nil {
		return TrialBalance{}, err
	}
	tb := TrialBalance{Accounts: accounts}
	for _, acc := range accounts {
		tb.TotalDebit += acc.TotalDebit
		tb.TotalCredit += acc.TotalCredit
	}
	tb.Balanced = math.Abs(tb.TotalDebit-tb.TotalCredit) < BalanceTolerance
	return tb, nil
}

// GeneralLedger is the whole-ledger dump: the trial balance aggregation
// shaped for rendering instead of a balance check.
func (b *Statements) GeneralLedger(ctx context.Context, tenantID int64, dr DateRange) (GeneralLedger, error) {
	tb, err := b.TrialBalance(ctx, tenantID, dr)
	if err != nil {
		return GeneralLedger{}, err
	}
	return GeneralLedger{
		Accounts:    tb.Accounts,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
	}, nil
}

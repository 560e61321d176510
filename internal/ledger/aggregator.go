package ledger

import (
	"context"
	"sort"
)

// Aggregator derives point-in-time account views by grouping ledger
// lines. Accounts have no stored identity; they exist exactly as long as
// entries reference them.
type Aggregator struct {
	repo Repository
}

// NewAggregator constructs the aggregator.
func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

// AccountSummaries groups all lines of the tenant by
// (account_head, account_type) with debit/credit totals and the signed
// balance (positive = net debit).
func (a *Aggregator) AccountSummaries(ctx context.Context, tenantID int64) ([]AccountSummary, error) {
	if tenantID == 0 {
		return nil, ErrNoTenant
	}
	return a.repo.AccountSummaries(ctx, tenantID, DateRange{})
}

// AccountTypeSummaries is a second-level aggregation over the account
// summaries, grouped by account type only.
func (a *Aggregator) AccountTypeSummaries(ctx context.Context, tenantID int64) ([]AccountTypeSummary, error) {
	accounts, err := a.AccountSummaries(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return GroupByAccountType(accounts), nil
}

// SuggestAccounts returns up to limit distinct account names matching the
// query substring, alphabetically, for posting-entry autocomplete.
func (a *Aggregator) SuggestAccounts(ctx context.Context, tenantID int64, query string, limit int) ([]AccountRef, error) {
	if tenantID == 0 {
		return nil, ErrNoTenant
	}
	if limit <= 0 || limit > 20 {
		limit = 20
	}
	return a.repo.SuggestAccounts(ctx, tenantID, query, limit)
}

// GroupByAccountType folds account summaries into per-type totals with a
// distinct account count.
func GroupByAccountType(accounts []AccountSummary) []AccountTypeSummary {
	byType := make(map[AccountType]*AccountTypeSummary)
	keys := make([]AccountType, 0)
	for _, acc := range accounts {
		sum, ok := byType[acc.AccountType]
		if !ok {
			sum = &AccountTypeSummary{AccountType: acc.AccountType}
			byType[acc.AccountType] = sum
			keys = append(keys, acc.AccountType)
		}
		sum.AccountCount++
		sum.TotalDebit += acc.TotalDebit
		sum.TotalCredit += acc.TotalCredit
		sum.TotalBalance += acc.Balance
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]AccountTypeSummary, 0, len(keys))
	for _, key := range keys {
		out = append(out, *byType[key])
	}
	return out
}

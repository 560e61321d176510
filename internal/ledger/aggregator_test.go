package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountSummaries(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	seedVouchers(t, svc)

	accounts, err := NewAggregator(repo).AccountSummaries(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	// Alphabetical by account head.
	require.Equal(t, "Capital", accounts[0].AccountHead)
	require.Equal(t, "Cash", accounts[1].AccountHead)
	require.Equal(t, "Rent", accounts[2].AccountHead)

	cash := accounts[1]
	require.Equal(t, AccountTypeCash, cash.AccountType)
	require.Equal(t, 1000.0, cash.TotalDebit)
	require.Equal(t, 400.0, cash.TotalCredit)
	require.Equal(t, 600.0, cash.Balance)

	require.Equal(t, AccountTypeGeneral, accounts[0].AccountType,
		"untyped lines land in the general bucket")
}

func TestAccountTypeSummaries(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	seedVouchers(t, svc)

	types, err := NewAggregator(repo).AccountTypeSummaries(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, types, 2)

	// Sorted by account type name: CASH before GENERAL.
	require.Equal(t, AccountTypeCash, types[0].AccountType)
	require.Equal(t, 1, types[0].AccountCount)
	require.Equal(t, 600.0, types[0].TotalBalance)

	require.Equal(t, AccountTypeGeneral, types[1].AccountType)
	require.Equal(t, 2, types[1].AccountCount)
	require.Equal(t, 1400.0, types[1].TotalDebit+types[1].TotalCredit)
	require.Equal(t, -600.0, types[1].TotalBalance)
}

func TestGroupByAccountTypeEmpty(t *testing.T) {
	require.Empty(t, GroupByAccountType(nil))
}

func TestSuggestAccounts(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	seedVouchers(t, svc)
	agg := NewAggregator(repo)
	ctx := context.Background()

	refs, err := agg.SuggestAccounts(ctx, 1, "ca", 10)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, "Capital", refs[0].AccountHead)
	require.Equal(t, "Cash", refs[1].AccountHead)

	refs, err = agg.SuggestAccounts(ctx, 1, "ca", 1)
	require.NoError(t, err)
	require.Len(t, refs, 1)

	refs, err = agg.SuggestAccounts(ctx, 1, "", 0)
	require.NoError(t, err)
	require.Len(t, refs, 3, "empty query suggests everything up to the limit")

	refs, err = agg.SuggestAccounts(ctx, 2, "ca", 10)
	require.NoError(t, err)
	require.Empty(t, refs, "suggestions never cross tenants")
}

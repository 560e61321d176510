package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/firmbooks/firmbooks/internal/ledger"
	_ "github.com/firmbooks/firmbooks/testing"
)

var generatedAt = time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC)

func TestTrialBalanceHTML(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	tb := ledger.TrialBalance{
		Accounts: []ledger.AccountSummary{
			{AccountHead: "Cash", AccountType: ledger.AccountTypeCash, TotalDebit: 1000, TotalCredit: 400, Balance: 600},
			{AccountHead: "Capital", AccountType: ledger.AccountTypeGeneral, TotalCredit: 1000, Balance: -1000},
		},
		TotalDebit:  1400,
		TotalCredit: 1400,
		Balanced:    true,
	}
	html, err := r.TrialBalanceHTML(7, tb, generatedAt)
	require.NoError(t, err)

	require.Contains(t, html, "Trial Balance")
	require.Contains(t, html, "Firm #7")
	require.Contains(t, html, "31 Mar 2024")
	require.Contains(t, html, "Cash")
	require.Contains(t, html, "1,400.00")
	require.Contains(t, html, "BALANCED")
	require.NotContains(t, html, "OUT OF BALANCE")

	tb.Balanced = false
	html, err = r.TrialBalanceHTML(7, tb, generatedAt)
	require.NoError(t, err)
	require.Contains(t, html, "OUT OF BALANCE")
}

func TestGeneralLedgerHTML(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	gl := ledger.GeneralLedger{
		Accounts:    []ledger.AccountSummary{{AccountHead: "Rent", TotalDebit: 400, Balance: 400}},
		TotalDebit:  400,
		TotalCredit: 400,
	}
	html, err := r.GeneralLedgerHTML(7, gl, generatedAt)
	require.NoError(t, err)
	require.Contains(t, html, "General Ledger")
	require.Contains(t, html, "Rent")
	require.Contains(t, html, "400.00")
}

func TestStatementHTML(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	stmt := ledger.Statement{
		AccountHead: "Cash",
		Lines: []ledger.StatementLine{
			{
				Entry: ledger.Entry{
					VoucherNo:       "PAY-0001",
					Narration:       "office rent",
					Credit:          400,
					TransactionDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
				},
				RunningBalance: 600,
			},
		},
		TotalDebit:     1000,
		TotalCredit:    400,
		ClosingBalance: 600,
	}
	html, err := r.StatementHTML(7, stmt, generatedAt)
	require.NoError(t, err)
	require.Contains(t, html, "Cash")
	require.Contains(t, html, "PAY-0001")
	require.Contains(t, html, "office rent")
	require.Contains(t, html, "20 Jan 2024")
	require.Contains(t, html, "600.00")
}

func TestStatementHTMLEscapesNarration(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	stmt := ledger.Statement{
		AccountHead: "Cash",
		Lines: []ledger.StatementLine{
			{Entry: ledger.Entry{Narration: "<script>alert(1)</script>", Debit: 1}, RunningBalance: 1},
		},
	}
	html, err := r.StatementHTML(7, stmt, generatedAt)
	require.NoError(t, err)
	require.NotContains(t, html, "<script>")
}

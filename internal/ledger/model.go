// Package ledger implements the double-entry ledger core: posting and
// validation of vouchers, per-account aggregation and running-balance
// statements, all scoped per firm (tenant).
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// VoucherType enumerates the business document kinds a posting can carry.
type VoucherType string

const (
	VoucherTypeJournal  VoucherType = "JOURNAL"
	VoucherTypePayment  VoucherType = "PAYMENT"
	VoucherTypeReceipt  VoucherType = "RECEIPT"
	VoucherTypeContra   VoucherType = "CONTRA"
	VoucherTypeSales    VoucherType = "SALES"
	VoucherTypePurchase VoucherType = "PURCHASE"
)

// Valid reports whether the voucher type is one of the known kinds.
func (t VoucherType) Valid() bool {
	switch t {
	case VoucherTypeJournal, VoucherTypePayment, VoucherTypeReceipt,
		VoucherTypeContra, VoucherTypeSales, VoucherTypePurchase:
		return true
	}
	return false
}

// AccountType classifies an account head for grouping and reporting.
// Accounts themselves have no stored identity; the classification rides
// on each line.
type AccountType string

const (
	AccountTypeGeneral  AccountType = "GENERAL"
	AccountTypeCash     AccountType = "CASH"
	AccountTypeBank     AccountType = "BANK"
	AccountTypeDebtor   AccountType = "DEBTOR"
	AccountTypeCreditor AccountType = "CREDITOR"
)

// Valid reports whether the account type is one of the known tags.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeGeneral, AccountTypeCash, AccountTypeBank,
		AccountTypeDebtor, AccountTypeCreditor:
		return true
	}
	return false
}

// Entry is one debit-or-credit line of a posting. It is the only
// persisted entity; lines are never updated in place, a correction
// replaces the whole voucher line set.
type Entry struct {
	ID              int64       `json:"id"`
	TenantID        int64       `json:"-"`
	VoucherID       uuid.UUID   `json:"voucherId"`
	VoucherType     VoucherType `json:"voucherType"`
	VoucherNo       string      `json:"voucherNo"`
	AccountHead     string      `json:"account_head"`
	AccountType     AccountType `json:"account_type"`
	Debit           float64     `json:"debit_amount"`
	Credit          float64     `json:"credit_amount"`
	Narration       string      `json:"narration"`
	TransactionDate time.Time   `json:"transaction_date"`
	CreatedBy       int64       `json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
}

// VoucherSummary is one row of a postings listing: a voucher with its
// per-side totals, grouped from its lines.
type VoucherSummary struct {
	VoucherID       uuid.UUID   `json:"voucherId"`
	VoucherNo       string      `json:"voucherNo"`
	VoucherType     VoucherType `json:"voucherType"`
	TransactionDate time.Time   `json:"transaction_date"`
	Narration       string      `json:"narration"`
	TotalDebit      float64     `json:"total_debit"`
	TotalCredit     float64     `json:"total_credit"`
	LineCount       int         `json:"line_count"`
}

// AccountSummary aggregates all lines of one derived account.
// Balance is signed: positive means net debit (DR), negative net credit (CR).
type AccountSummary struct {
	AccountHead string      `json:"account_head"`
	AccountType AccountType `json:"account_type"`
	TotalDebit  float64     `json:"total_debit"`
	TotalCredit float64     `json:"total_credit"`
	Balance     float64     `json:"balance"`
}

// AccountTypeSummary is the second-level aggregation over account
// summaries, grouped by account type.
type AccountTypeSummary struct {
	AccountType  AccountType `json:"account_type"`
	AccountCount int         `json:"account_count"`
	TotalDebit   float64     `json:"total_debit"`
	TotalCredit  float64     `json:"total_credit"`
	TotalBalance float64     `json:"total_balance"`
}

// AccountRef names a derived account, used for autocomplete suggestions.
type AccountRef struct {
	AccountHead string      `json:"account_head"`
	AccountType AccountType `json:"account_type"`
}

// StatementLine is an entry annotated with the running balance after it,
// accumulated in chronological order.
type StatementLine struct {
	Entry
	RunningBalance float64 `json:"running_balance"`
}

// Statement is an ordered account statement. Lines are in display order,
// most recent first; the running balances were accumulated forward before
// the reversal.
type Statement struct {
	AccountHead    string          `json:"account_head"`
	Lines          []StatementLine `json:"lines"`
	TotalDebit     float64         `json:"total_debit"`
	TotalCredit    float64         `json:"total_credit"`
	ClosingBalance float64         `json:"closing_balance"`
}

// TrialBalance verifies that debits equal credits across all accounts of
// a tenant. A false Balanced flag indicates data corruption, not a
// validation failure.
type TrialBalance struct {
	Accounts    []AccountSummary `json:"accounts"`
	TotalDebit  float64          `json:"total_debit"`
	TotalCredit float64          `json:"total_credit"`
	Balanced    bool             `json:"balanced"`
}

// GeneralLedger is the full-ledger dump: the same aggregation as the
// trial balance, formatted for rendering rather than a balance check.
type GeneralLedger struct {
	Accounts    []AccountSummary `json:"accounts"`
	TotalDebit  float64          `json:"total_debit"`
	TotalCredit float64          `json:"total_credit"`
}

// DateRange bounds a report query; either side may be open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether the business date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	if r.From != nil && date.Before(*r.From) {
		return false
	}
	if r.To != nil && date.After(*r.To) {
		return false
	}
	return true
}

// BalanceTolerance is the behavioural contract for voucher balancing:
// debit and credit totals may differ by at most one paisa of drift.
const BalanceTolerance = 0.01

package ledger

import (
	"math"
	"time"
)

// LineInput describes one ledger line in a posting request.
type LineInput struct {
	AccountHead string
	AccountType AccountType
	Debit       float64
	Credit      float64
	Narration   string
}

// PostingInput groups fields required to create or replace a posting.
type PostingInput struct {
	TenantID        int64
	ActorID         int64
	VoucherType     VoucherType
	TransactionDate time.Time
	Narration       string
	Lines           []LineInput
}

// Validate ensures posting input upholds the line and balance invariants
// before any write is attempted. Each line must carry an account head and
// be either a debit or a credit, never both and never neither; the line
// totals must agree within BalanceTolerance.
func (in PostingInput) Validate() error {
	if in.TenantID == 0 {
		return ErrNoTenant
	}
	if len(in.Lines) == 0 {
		return &ValidationError{Msg: "posting requires at least one line"}
	}
	var debit, credit float64
	for idx, line := range in.Lines {
		if line.AccountHead == "" {
			return lineError(idx, "account head required")
		}
		if line.AccountType != "" && !line.AccountType.Valid() {
			return lineError(idx, "unknown account type")
		}
		if line.Debit < 0 || line.Credit < 0 {
			return lineError(idx, "negative amount")
		}
		if line.Debit > 0 && line.Credit > 0 {
			return lineError(idx, "cannot be both debit and credit")
		}
		if line.Debit == 0 && line.Credit == 0 {
			return lineError(idx, "amount required")
		}
		debit += line.Debit
		credit += line.Credit
	}
	if math.Abs(debit-credit) > BalanceTolerance {
		return unbalancedError(debit, credit)
	}
	return nil
}

// Totals sums the debit and credit sides of the input.
func (in PostingInput) Totals() (debit, credit float64) {
	for _, line := range in.Lines {
		debit += line.Debit
		credit += line.Credit
	}
	return debit, credit
}

// PostingReceipt is returned by write operations.
type PostingReceipt struct {
	VoucherID   string  `json:"voucherId"`
	VoucherNo   string  `json:"voucherNo"`
	TotalDebit  float64 `json:"totalDebits"`
	TotalCredit float64 `json:"totalCredits"`
}

// ListPostingsQuery filters and paginates a postings listing.
type ListPostingsQuery struct {
	Search string
	Range  DateRange
	Page   int
	Limit  int
}

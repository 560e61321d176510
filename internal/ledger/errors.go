package ledger

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// ErrVoucherNotFound indicates the voucher does not exist for the
	// caller's tenant. A wrong-tenant voucher reports identically so
	// cross-tenant existence never leaks.
	ErrVoucherNotFound = errors.New("ledger: voucher not found")
	// ErrAccountNotFound indicates no entries exist for the account head.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrNoTenant indicates the operation was invoked without a tenant.
	ErrNoTenant = errors.New("ledger: tenant required")
	// ErrSequenceConflict indicates two allocations raced for the same
	// voucher number. The sequencer prevents this; callers may retry.
	ErrSequenceConflict = errors.New("ledger: voucher number conflict")
)

// amounts carries a shared printer so report and error formatting group
// digits the same way.
var amounts = message.NewPrinter(language.English)

// FormatAmount renders a monetary amount with digit grouping, e.g. 1,200.00.
func FormatAmount(v float64) string {
	return amounts.Sprintf("%.2f", v)
}

// ValidationError reports an unbalanced or malformed posting. It carries
// the computed totals, or the offending line index, so the caller can
// correct the input.
type ValidationError struct {
	Msg         string
	Line        int // 1-based offending line, 0 when not line-specific
	TotalDebit  float64
	TotalCredit float64
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ledger: line %d: %s", e.Line, e.Msg)
	}
	if e.Msg != "" {
		return "ledger: " + e.Msg
	}
	return fmt.Sprintf("ledger: posting does not balance (debits %s, credits %s)",
		FormatAmount(e.TotalDebit), FormatAmount(e.TotalCredit))
}

func lineError(idx int, msg string) *ValidationError {
	return &ValidationError{Line: idx + 1, Msg: msg}
}

func unbalancedError(debit, credit float64) *ValidationError {
	return &ValidationError{TotalDebit: debit, TotalCredit: credit}
}

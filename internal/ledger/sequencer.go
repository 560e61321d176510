package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sequencer allocates the next human-readable voucher number for a
// tenant and document type. Implementations must guarantee that two
// concurrent allocations for the same (tenant, type) never return the
// same number, independently of the posting transaction.
type Sequencer interface {
	Next(ctx context.Context, tenantID int64, docType VoucherType) (string, error)
}

var voucherPrefixes = map[VoucherType]string{
	VoucherTypeJournal:  "JRN",
	VoucherTypePayment:  "PAY",
	VoucherTypeReceipt:  "RCP",
	VoucherTypeContra:   "CNT",
	VoucherTypeSales:    "SAL",
	VoucherTypePurchase: "PUR",
}

// FormatVoucherNo renders the externally visible document number.
func FormatVoucherNo(docType VoucherType, n int64) string {
	prefix, ok := voucherPrefixes[docType]
	if !ok {
		prefix = string(docType)
	}
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// PGSequencer implements Sequencer on a voucher_sequences table with an
// atomic upsert-and-increment, so allocation is a single statement and
// needs no surrounding transaction.
type PGSequencer struct {
	pool *pgxpool.Pool
}

// NewPGSequencer constructs the Postgres-backed sequencer.
func NewPGSequencer(pool *pgxpool.Pool) *PGSequencer {
	return &PGSequencer{pool: pool}
}

// Next allocates and returns the next voucher number.
func (s *PGSequencer) Next(ctx context.Context, tenantID int64, docType VoucherType) (string, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `INSERT INTO voucher_sequences (tenant_id, voucher_type, next_no)
VALUES ($1, $2, 1)
ON CONFLICT (tenant_id, voucher_type)
DO UPDATE SET next_no = voucher_sequences.next_no + 1
RETURNING next_no`, tenantID, docType).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("ledger: allocate voucher number: %w", err)
	}
	return FormatVoucherNo(docType, n), nil
}

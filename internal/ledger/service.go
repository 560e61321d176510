package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/firmbooks/firmbooks/internal/shared"
	"github.com/google/uuid"
)

// AuditPort records ledger mutations into the audit trail.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service validates and atomically persists balanced multi-line
// postings. All mutation of the ledger store goes through it.
type Service struct {
	repo    Repository
	seq     Sequencer
	audit   AuditPort
	now     func() time.Time
	onWrite func()
}

// NewService constructs the posting service.
func NewService(repo Repository, seq Sequencer, audit AuditPort) *Service {
	return &Service{repo: repo, seq: seq, audit: audit, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// OnWrite registers a hook invoked after every successful mutation,
// used to bust report caches.
func (s *Service) OnWrite(fn func()) {
	s.onWrite = fn
}

// CreatePosting validates the input, allocates a voucher number and
// writes all lines as one transaction. No partial posting is ever
// visible to readers.
func (s *Service) CreatePosting(ctx context.Context, in PostingInput) (PostingReceipt, error) {
	if in.VoucherType == "" {
		in.VoucherType = VoucherTypeJournal
	}
	if !in.VoucherType.Valid() {
		return PostingReceipt{}, &ValidationError{Msg: "unknown voucher type"}
	}
	if err := in.Validate(); err != nil {
		return PostingReceipt{}, err
	}
	voucherNo, err := s.seq.Next(ctx, in.TenantID, in.VoucherType)
	if err != nil {
		return PostingReceipt{}, err
	}
	voucherID := uuid.New()
	entries := s.buildEntries(voucherID, voucherNo, in)
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.InsertEntries(ctx, entries)
	})
	if err != nil {
		return PostingReceipt{}, err
	}
	debit, credit := in.Totals()
	s.recordAudit(ctx, in.TenantID, in.ActorID, "posting.create", voucherID, map[string]any{
		"voucher_no":   voucherNo,
		"voucher_type": string(in.VoucherType),
		"lines":        len(in.Lines),
	})
	s.notifyWrite()
	return PostingReceipt{
		VoucherID:   voucherID.String(),
		VoucherNo:   voucherNo,
		TotalDebit:  debit,
		TotalCredit: credit,
	}, nil
}

// UpdatePosting replaces the full line set of an existing voucher while
// preserving its voucher number. The delete and reinsert happen inside
// one transaction so readers never observe a partial voucher.
func (s *Service) UpdatePosting(ctx context.Context, tenantID int64, voucherID uuid.UUID, in PostingInput) (PostingReceipt, error) {
	in.TenantID = tenantID
	if err := in.Validate(); err != nil {
		return PostingReceipt{}, err
	}
	var voucherNo string
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		no, vtype, err := tx.GetVoucherHeader(ctx, tenantID, voucherID)
		if err != nil {
			return err
		}
		voucherNo = no
		in.VoucherType = vtype
		if _, err := tx.DeleteVoucher(ctx, tenantID, voucherID); err != nil {
			return err
		}
		return tx.InsertEntries(ctx, s.buildEntries(voucherID, voucherNo, in))
	})
	if err != nil {
		return PostingReceipt{}, err
	}
	debit, credit := in.Totals()
	s.recordAudit(ctx, tenantID, in.ActorID, "posting.update", voucherID, map[string]any{
		"voucher_no": voucherNo,
		"lines":      len(in.Lines),
	})
	s.notifyWrite()
	return PostingReceipt{
		VoucherID:   voucherID.String(),
		VoucherNo:   voucherNo,
		TotalDebit:  debit,
		TotalCredit: credit,
	}, nil
}

// DeletePosting permanently removes all lines of a voucher. The removal
// is unconditional; there is no soft-cancel state.
func (s *Service) DeletePosting(ctx context.Context, tenantID, actorID int64, voucherID uuid.UUID) error {
	if tenantID == 0 {
		return ErrNoTenant
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		deleted, err := tx.DeleteVoucher(ctx, tenantID, voucherID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrVoucherNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, tenantID, actorID, "posting.delete", voucherID, nil)
	s.notifyWrite()
	return nil
}

// ListPostings returns vouchers grouped from their lines, newest first,
// with per-voucher totals and distinct-voucher pagination.
func (s *Service) ListPostings(ctx context.Context, tenantID int64, q ListPostingsQuery) ([]VoucherSummary, shared.Pagination, error) {
	if tenantID == 0 {
		return nil, shared.Pagination{}, ErrNoTenant
	}
	items, total, err := s.repo.ListVouchers(ctx, tenantID, q)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(q.Page, q.Limit, total), nil
}

func (s *Service) buildEntries(voucherID uuid.UUID, voucherNo string, in PostingInput) []Entry {
	now := s.now()
	out := make([]Entry, 0, len(in.Lines))
	for _, line := range in.Lines {
		accountType := line.AccountType
		if accountType == "" {
			accountType = AccountTypeGeneral
		}
		out = append(out, Entry{
			TenantID:        in.TenantID,
			VoucherID:       voucherID,
			VoucherType:     in.VoucherType,
			VoucherNo:       voucherNo,
			AccountHead:     line.AccountHead,
			AccountType:     accountType,
			Debit:           line.Debit,
			Credit:          line.Credit,
			Narration:       narrationFor(line, in, voucherNo),
			TransactionDate: in.TransactionDate,
			CreatedBy:       in.ActorID,
			CreatedAt:       now,
		})
	}
	return out
}

// narrationFor picks the line narration, falling back to the posting
// narration and finally a generated default.
func narrationFor(line LineInput, in PostingInput, voucherNo string) string {
	if line.Narration != "" {
		return line.Narration
	}
	if in.Narration != "" {
		return in.Narration
	}
	return fmt.Sprintf("Journal Entry %s", voucherNo)
}

func (s *Service) recordAudit(ctx context.Context, tenantID, actorID int64, action string, voucherID uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		TenantID: tenantID,
		ActorID:  actorID,
		Action:   action,
		Entity:   "voucher",
		EntityID: voucherID.String(),
		Meta:     meta,
		At:       s.now(),
	})
}

func (s *Service) notifyWrite() {
	if s.onWrite != nil {
		s.onWrite()
	}
}

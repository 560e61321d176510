package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// memoryRepo is an in-memory Repository/TxRepository used across the
// package tests. It mirrors the tenant scoping and ordering contracts of
// the Postgres implementation.
type memoryRepo struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{}
}

type memoryTx struct {
	repo *memoryRepo
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

func (t *memoryTx) InsertEntries(ctx context.Context, entries []Entry) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for _, e := range entries {
		t.repo.nextID++
		e.ID = t.repo.nextID
		t.repo.entries = append(t.repo.entries, e)
	}
	return nil
}

func (t *memoryTx) DeleteVoucher(ctx context.Context, tenantID int64, voucherID uuid.UUID) (int64, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	var kept []Entry
	var deleted int64
	for _, e := range t.repo.entries {
		if e.TenantID == tenantID && e.VoucherID == voucherID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	t.repo.entries = kept
	return deleted, nil
}

func (t *memoryTx) GetVoucherHeader(ctx context.Context, tenantID int64, voucherID uuid.UUID) (string, VoucherType, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for _, e := range t.repo.entries {
		if e.TenantID == tenantID && e.VoucherID == voucherID {
			return e.VoucherNo, e.VoucherType, nil
		}
	}
	return "", "", ErrVoucherNotFound
}

func (r *memoryRepo) tenantEntries(tenantID int64) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out
}

func (r *memoryRepo) ListVouchers(ctx context.Context, tenantID int64, q ListPostingsQuery) ([]VoucherSummary, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	grouped := make(map[uuid.UUID]*VoucherSummary)
	var order []uuid.UUID
	for _, e := range r.tenantEntries(tenantID) {
		if !q.Range.Contains(e.TransactionDate) {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(e.VoucherNo), needle) &&
				!strings.Contains(strings.ToLower(e.Narration), needle) {
				continue
			}
		}
		sum, ok := grouped[e.VoucherID]
		if !ok {
			sum = &VoucherSummary{
				VoucherID:       e.VoucherID,
				VoucherNo:       e.VoucherNo,
				VoucherType:     e.VoucherType,
				TransactionDate: e.TransactionDate,
				Narration:       e.Narration,
			}
			grouped[e.VoucherID] = sum
			order = append(order, e.VoucherID)
		}
		sum.TotalDebit += e.Debit
		sum.TotalCredit += e.Credit
		sum.LineCount++
	}
	items := make([]VoucherSummary, 0, len(order))
	for _, id := range order {
		items = append(items, *grouped[id])
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].TransactionDate.Equal(items[j].TransactionDate) {
			return items[i].TransactionDate.After(items[j].TransactionDate)
		}
		return items[i].VoucherNo > items[j].VoucherNo
	})
	total := len(items)

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total, nil
}

func (r *memoryRepo) AccountSummaries(ctx context.Context, tenantID int64, dr DateRange) ([]AccountSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type key struct {
		head string
		typ  AccountType
	}
	grouped := make(map[key]*AccountSummary)
	for _, e := range r.tenantEntries(tenantID) {
		if !dr.Contains(e.TransactionDate) {
			continue
		}
		k := key{e.AccountHead, e.AccountType}
		sum, ok := grouped[k]
		if !ok {
			sum = &AccountSummary{AccountHead: e.AccountHead, AccountType: e.AccountType}
			grouped[k] = sum
		}
		sum.TotalDebit += e.Debit
		sum.TotalCredit += e.Credit
		sum.Balance += e.Debit - e.Credit
	}
	out := make([]AccountSummary, 0, len(grouped))
	for _, sum := range grouped {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AccountHead != out[j].AccountHead {
			return out[i].AccountHead < out[j].AccountHead
		}
		return out[i].AccountType < out[j].AccountType
	})
	return out, nil
}

func (r *memoryRepo) SuggestAccounts(ctx context.Context, tenantID int64, query string, limit int) ([]AccountRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[AccountRef]bool)
	var out []AccountRef
	for _, e := range r.tenantEntries(tenantID) {
		if !strings.Contains(strings.ToLower(e.AccountHead), strings.ToLower(query)) {
			continue
		}
		ref := AccountRef{AccountHead: e.AccountHead, AccountType: e.AccountType}
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountHead < out[j].AccountHead })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) AccountEntries(ctx context.Context, tenantID int64, head string, dr DateRange) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.tenantEntries(tenantID) {
		if e.AccountHead != head || !dr.Contains(e.TransactionDate) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.Before(out[j].TransactionDate)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memoryRepo) AccountExists(ctx context.Context, tenantID int64, head string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.tenantEntries(tenantID) {
		if e.AccountHead == head {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) TenantIDs(ctx context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[int64]bool)
	var out []int64
	for _, e := range r.entries {
		if !seen[e.TenantID] {
			seen[e.TenantID] = true
			out = append(out, e.TenantID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// memorySequencer allocates per (tenant, type) numbers without a store.
type memorySequencer struct {
	mu      sync.Mutex
	cursors map[string]int64
}

func newMemorySequencer() *memorySequencer {
	return &memorySequencer{cursors: make(map[string]int64)}
}

func (s *memorySequencer) Next(ctx context.Context, tenantID int64, docType VoucherType) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d:%s", tenantID, docType)
	s.cursors[key]++
	return FormatVoucherNo(docType, s.cursors[key]), nil
}

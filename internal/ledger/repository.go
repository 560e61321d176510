package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository encapsulates read access to the ledger line store. All
// queries are scoped by tenant id; no query may cross that boundary.
type Repository interface {
	// WithTx runs fn inside one transaction; mutations are only reachable
	// through the TxRepository it provides.
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	ListVouchers(ctx context.Context, tenantID int64, q ListPostingsQuery) ([]VoucherSummary, int, error)
	AccountSummaries(ctx context.Context, tenantID int64, r DateRange) ([]AccountSummary, error)
	SuggestAccounts(ctx context.Context, tenantID int64, query string, limit int) ([]AccountRef, error)
	// AccountEntries returns the account's lines in ascending
	// chronological order (transaction_date, then created_at, then id).
	// Statement building depends on this ordering.
	AccountEntries(ctx context.Context, tenantID int64, head string, r DateRange) ([]Entry, error)
	AccountExists(ctx context.Context, tenantID int64, head string) (bool, error)
	TenantIDs(ctx context.Context) ([]int64, error)
}

// TxRepository exposes mutations available within a transaction.
type TxRepository interface {
	InsertEntries(ctx context.Context, entries []Entry) error
	DeleteVoucher(ctx context.Context, tenantID int64, voucherID uuid.UUID) (int64, error)
	GetVoucherHeader(ctx context.Context, tenantID int64, voucherID uuid.UUID) (string, VoucherType, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository builds the Postgres-backed ledger repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("ledger: begin tx: %w", err)
	}
	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ledger: commit tx: %w", err)
	}
	return nil
}

const entryColumns = `id, tenant_id, voucher_id, voucher_type, voucher_no, account_head, account_type, debit_amount, credit_amount, narration, transaction_date, created_by, created_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.TenantID, &e.VoucherID, &e.VoucherType, &e.VoucherNo,
		&e.AccountHead, &e.AccountType, &e.Debit, &e.Credit, &e.Narration,
		&e.TransactionDate, &e.CreatedBy, &e.CreatedAt)
	return e, err
}

func (r *repository) ListVouchers(ctx context.Context, tenantID int64, q ListPostingsQuery) ([]VoucherSummary, int, error) {
	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	argPos := 2

	if q.Range.From != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", argPos))
		args = append(args, *q.Range.From)
		argPos++
	}
	if q.Range.To != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", argPos))
		args = append(args, *q.Range.To)
		argPos++
	}
	if q.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(voucher_no ILIKE $%d OR narration ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+escapeLike(q.Search)+"%")
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM (SELECT 1 FROM ledger_entries WHERE %s GROUP BY voucher_no, voucher_id) AS vouchers`, where)
	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	listSQL := fmt.Sprintf(`SELECT voucher_id, voucher_no, MIN(voucher_type), MIN(transaction_date), MIN(narration), SUM(debit_amount), SUM(credit_amount), COUNT(*)
FROM ledger_entries WHERE %s
GROUP BY voucher_no, voucher_id
ORDER BY MIN(transaction_date) DESC, MIN(created_at) DESC, voucher_no DESC
LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []VoucherSummary
	for rows.Next() {
		var v VoucherSummary
		if err := rows.Scan(&v.VoucherID, &v.VoucherNo, &v.VoucherType, &v.TransactionDate,
			&v.Narration, &v.TotalDebit, &v.TotalCredit, &v.LineCount); err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

func (r *repository) AccountSummaries(ctx context.Context, tenantID int64, dr DateRange) ([]AccountSummary, error) {
	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	argPos := 2
	if dr.From != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", argPos))
		args = append(args, *dr.From)
		argPos++
	}
	if dr.To != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", argPos))
		args = append(args, *dr.To)
		argPos++
	}
	query := fmt.Sprintf(`SELECT account_head, account_type, SUM(debit_amount), SUM(credit_amount), SUM(debit_amount) - SUM(credit_amount)
FROM ledger_entries WHERE %s
GROUP BY account_head, account_type
ORDER BY account_head ASC, account_type ASC`, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountSummary
	for rows.Next() {
		var s AccountSummary
		if err := rows.Scan(&s.AccountHead, &s.AccountType, &s.TotalDebit, &s.TotalCredit, &s.Balance); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) SuggestAccounts(ctx context.Context, tenantID int64, query string, limit int) ([]AccountRef, error) {
	if limit <= 0 || limit > 20 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `SELECT DISTINCT account_head, account_type FROM ledger_entries
WHERE tenant_id = $1 AND account_head ILIKE $2
ORDER BY account_head ASC LIMIT $3`, tenantID, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountRef
	for rows.Next() {
		var ref AccountRef
		if err := rows.Scan(&ref.AccountHead, &ref.AccountType); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (r *repository) AccountEntries(ctx context.Context, tenantID int64, head string, dr DateRange) ([]Entry, error) {
	conditions := []string{"tenant_id = $1", "account_head = $2"}
	args := []interface{}{tenantID, head}
	argPos := 3
	if dr.From != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", argPos))
		args = append(args, *dr.From)
		argPos++
	}
	if dr.To != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", argPos))
		args = append(args, *dr.To)
		argPos++
	}
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE %s
ORDER BY transaction_date ASC, created_at ASC, id ASC`, entryColumns, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) AccountExists(ctx context.Context, tenantID int64, head string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE tenant_id = $1 AND account_head = $2)`, tenantID, head).Scan(&exists)
	return exists, err
}

func (r *repository) TenantIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT tenant_id FROM ledger_entries ORDER BY tenant_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) InsertEntries(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		if _, err := r.tx.Exec(ctx, `INSERT INTO ledger_entries (tenant_id, voucher_id, voucher_type, voucher_no, account_head, account_type, debit_amount, credit_amount, narration, transaction_date, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			e.TenantID, e.VoucherID, e.VoucherType, e.VoucherNo, e.AccountHead, e.AccountType,
			toNumeric(e.Debit), toNumeric(e.Credit), e.Narration, e.TransactionDate, e.CreatedBy); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) DeleteVoucher(ctx context.Context, tenantID int64, voucherID uuid.UUID) (int64, error) {
	cmd, err := r.tx.Exec(ctx, `DELETE FROM ledger_entries WHERE tenant_id = $1 AND voucher_id = $2`, tenantID, voucherID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *txRepository) GetVoucherHeader(ctx context.Context, tenantID int64, voucherID uuid.UUID) (string, VoucherType, error) {
	var no string
	var vtype VoucherType
	err := r.tx.QueryRow(ctx, `SELECT voucher_no, voucher_type FROM ledger_entries WHERE tenant_id = $1 AND voucher_id = $2 LIMIT 1`, tenantID, voucherID).Scan(&no, &vtype)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrVoucherNotFound
		}
		return "", "", err
	}
	return no, vtype, nil
}

// toNumeric renders amounts with two decimals so Postgres numeric columns
// never accumulate float representation noise.
func toNumeric(v float64) any {
	return fmt.Sprintf("%.2f", v)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike neutralises LIKE metacharacters in user-supplied search
// text so a search for "100%" matches that literal substring rather
// than everything.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

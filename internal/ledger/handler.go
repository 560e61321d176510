package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/firmbooks/firmbooks/internal/observability"
	"github.com/firmbooks/firmbooks/internal/platform/httpx"
	"github.com/firmbooks/firmbooks/internal/shared"
)

// PDFRenderer converts rendered report HTML into a binary document.
// Backed by the external Gotenberg service in production.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// ReportRenderer turns report data into printable HTML.
type ReportRenderer interface {
	TrialBalanceHTML(tenantID int64, tb TrialBalance, at time.Time) (string, error)
	GeneralLedgerHTML(tenantID int64, gl GeneralLedger, at time.Time) (string, error)
	StatementHTML(tenantID int64, stmt Statement, at time.Time) (string, error)
}

// Handler exposes the ledger over JSON HTTP.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	aggregator  *Aggregator
	statements  *Statements
	validate    *validator.Validate
	idempotency *shared.IdempotencyStore
	metrics     *observability.Metrics
	pdf         PDFRenderer
	reports     ReportRenderer
	cache       *reportCache
	now         func() time.Time
}

// NewHandler wires the ledger HTTP surface. idempotency, metrics, pdf
// and reports may be nil; the matching features degrade gracefully.
func NewHandler(logger *slog.Logger, service *Service, aggregator *Aggregator, statements *Statements,
	idempotency *shared.IdempotencyStore, metrics *observability.Metrics, pdf PDFRenderer, reports ReportRenderer) *Handler {
	h := &Handler{
		logger:      logger,
		service:     service,
		aggregator:  aggregator,
		statements:  statements,
		validate:    validator.New(),
		idempotency: idempotency,
		metrics:     metrics,
		pdf:         pdf,
		reports:     reports,
		cache:       newReportCache(reportCacheTTL),
		now:         time.Now,
	}
	service.OnWrite(h.cache.Bust)
	return h
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (shared.Identity, bool) {
	id := shared.IdentityFromContext(r.Context())
	if id.TenantID == 0 {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", shared.ErrNoTenant.Error())
		return shared.Identity{}, false
	}
	return id, true
}

// respondError maps ledger errors onto the RFC7807 surface. Validation
// failures carry the computed totals or line index in the detail;
// persistence failures stay generic and go to the logs only.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.metrics.PostingRejected()
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", verr.Error())
	case errors.Is(err, ErrVoucherNotFound), errors.Is(err, ErrAccountNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrNoTenant), errors.Is(err, shared.ErrNoTenant):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict), errors.Is(err, ErrSequenceConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("ledger request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// CreatePosting handles POST /postings.
func (h *Handler) CreatePosting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req PostingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	idemKey := r.Header.Get("Idempotency-Key")
	claimed := false
	if idemKey != "" && h.idempotency != nil {
		if err := h.idempotency.CheckAndInsert(r.Context(), id.TenantID, "postings", idemKey); err != nil {
			h.respondError(w, r, err)
			return
		}
		claimed = true
	}
	input, err := req.ToInput(id.TenantID, id.UserID)
	if err != nil {
		h.releaseIdempotency(r, claimed, id.TenantID, idemKey)
		h.respondError(w, r, err)
		return
	}
	receipt, err := h.service.CreatePosting(r.Context(), input)
	if err != nil {
		h.releaseIdempotency(r, claimed, id.TenantID, idemKey)
		h.respondError(w, r, err)
		return
	}
	h.metrics.PostingWritten(string(input.VoucherType))
	httpx.JSON(w, http.StatusCreated, receipt)
}

// releaseIdempotency frees a claimed key after a failed posting so the
// client can retry the corrected request under the same key. The key
// only stays claimed once lines were actually written.
func (h *Handler) releaseIdempotency(r *http.Request, claimed bool, tenantID int64, key string) {
	if !claimed {
		return
	}
	if err := h.idempotency.Release(r.Context(), tenantID, "postings", key); err != nil {
		h.logger.Warn("release idempotency key failed",
			slog.String("key", key), slog.Any("error", err))
	}
}

// UpdatePosting handles PUT /postings/{id}.
func (h *Handler) UpdatePosting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	voucherID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid voucher id")
		return
	}
	var req PostingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input, err := req.ToInput(id.TenantID, id.UserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	receipt, err := h.service.UpdatePosting(r.Context(), id.TenantID, voucherID, input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, receipt)
}

// DeletePosting handles DELETE /postings/{id}.
func (h *Handler) DeletePosting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	voucherID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid voucher id")
		return
	}
	if err := h.service.DeletePosting(r.Context(), id.TenantID, id.UserID, voucherID); err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"voucherId": voucherID.String()})
}

// ListPostingsResponse is the paginated postings listing body.
type ListPostingsResponse struct {
	Items      []VoucherSummary `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// ListPostings handles GET /postings.
func (h *Handler) ListPostings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	q := ListPostingsQuery{
		Search: r.URL.Query().Get("search"),
		Range:  parseDateRange(r),
		Page:   parseIntParam(r, "page", 1),
		Limit:  parseIntParam(r, "limit", 20),
	}
	items, page, err := h.service.ListPostings(r.Context(), id.TenantID, q)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if items == nil {
		items = []VoucherSummary{}
	}
	httpx.JSON(w, http.StatusOK, ListPostingsResponse{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

// Accounts handles GET /accounts.
func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	summaries, err := h.aggregator.AccountSummaries(r.Context(), id.TenantID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []AccountSummary{}
	}
	httpx.JSON(w, http.StatusOK, summaries)
}

// AccountTypes handles GET /account-types.
func (h *Handler) AccountTypes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	summaries, err := h.aggregator.AccountTypeSummaries(r.Context(), id.TenantID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []AccountTypeSummary{}
	}
	httpx.JSON(w, http.StatusOK, summaries)
}

// SuggestAccounts handles GET /accounts/suggest.
func (h *Handler) SuggestAccounts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	refs, err := h.aggregator.SuggestAccounts(r.Context(), id.TenantID, r.URL.Query().Get("q"), parseIntParam(r, "limit", 20))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if refs == nil {
		refs = []AccountRef{}
	}
	httpx.JSON(w, http.StatusOK, refs)
}

// AccountStatement handles GET /accounts/{head}.
func (h *Handler) AccountStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	head := chi.URLParam(r, "head")
	stmt, err := h.statements.AccountStatement(r.Context(), id.TenantID, head, parseDateRange(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stmt)
}

// TrialBalance handles GET /trial-balance.
func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	dr := parseDateRange(r)
	key := reportCacheKey(id.TenantID, "trial-balance", dr)
	if cached, ok := h.cache.Get(key); ok {
		httpx.JSON(w, http.StatusOK, cached)
		return
	}
	tb, err := h.statements.TrialBalance(r.Context(), id.TenantID, dr)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if tb.Accounts == nil {
		tb.Accounts = []AccountSummary{}
	}
	h.cache.Set(key, tb)
	httpx.JSON(w, http.StatusOK, tb)
}

// GeneralLedger handles GET /general-ledger.
func (h *Handler) GeneralLedger(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	dr := parseDateRange(r)
	key := reportCacheKey(id.TenantID, "general-ledger", dr)
	if cached, ok := h.cache.Get(key); ok {
		httpx.JSON(w, http.StatusOK, cached)
		return
	}
	gl, err := h.statements.GeneralLedger(r.Context(), id.TenantID, dr)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if gl.Accounts == nil {
		gl.Accounts = []AccountSummary{}
	}
	h.cache.Set(key, gl)
	httpx.JSON(w, http.StatusOK, gl)
}

func parseDateRange(r *http.Request) DateRange {
	var dr DateRange
	if from, err := time.Parse(requestDateLayout, r.URL.Query().Get("start_date")); err == nil {
		dr.From = &from
	}
	if to, err := time.Parse(requestDateLayout, r.URL.Query().Get("end_date")); err == nil {
		dr.To = &to
	}
	return dr
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

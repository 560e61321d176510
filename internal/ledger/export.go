package ledger

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/firmbooks/firmbooks/internal/platform/httpx"
)

// Export handles GET /export/{report}: renders the requested report to
// HTML and delegates PDF conversion to the external renderer. The
// statement report additionally requires an account query parameter.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	if h.pdf == nil || h.reports == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "document renderer not configured")
		return
	}
	dr := parseDateRange(r)
	report := chi.URLParam(r, "report")
	now := h.now()

	var html string
	var err error
	switch report {
	case "trial-balance":
		var tb TrialBalance
		if tb, err = h.statements.TrialBalance(r.Context(), id.TenantID, dr); err == nil {
			html, err = h.reports.TrialBalanceHTML(id.TenantID, tb, now)
		}
	case "general-ledger":
		var gl GeneralLedger
		if gl, err = h.statements.GeneralLedger(r.Context(), id.TenantID, dr); err == nil {
			html, err = h.reports.GeneralLedgerHTML(id.TenantID, gl, now)
		}
	case "statement":
		head := r.URL.Query().Get("account")
		var stmt Statement
		if stmt, err = h.statements.AccountStatement(r.Context(), id.TenantID, head, dr); err == nil {
			html, err = h.reports.StatementHTML(id.TenantID, stmt, now)
		}
	default:
		httpx.Problem(w, http.StatusNotFound, "Not Found", fmt.Sprintf("unknown report %q", report))
		return
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	pdf, err := h.pdf.RenderHTML(r.Context(), html)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", report))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

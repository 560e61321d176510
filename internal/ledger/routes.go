package ledger

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the ledger endpoints to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/postings", func(r chi.Router) {
		r.Get("/", h.ListPostings)
		r.Post("/", h.CreatePosting)
		r.Put("/{id}", h.UpdatePosting)
		r.Delete("/{id}", h.DeletePosting)
	})
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", h.Accounts)
		r.Get("/suggest", h.SuggestAccounts)
		r.Get("/{head}", h.AccountStatement)
	})
	r.Get("/account-types", h.AccountTypes)
	r.Get("/trial-balance", h.TrialBalance)
	r.Get("/general-ledger", h.GeneralLedger)
	r.Get("/export/{report}", h.Export)
}

package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/http/respond"
	"github.com/MrJamesThe3rd/invoicer/internal/report"
)

type Handler struct {
	composer *report.Composer
}

func NewHandler(composer *report.Composer) *Handler {
	return &Handler{composer: composer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/reports", h.report)
}

// dashboard redirects to the invoice list while no invoice exists.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.composer.BuildDashboard(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, d)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rng, err := daterange.Parse(q.Get("start"), q.Get("end"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rep, err := h.composer.BuildReport(r.Context(), rng)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, rep)
}

package invoice

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/http/respond"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

type Handler struct {
	svc *invoice.Service
	agg *invoice.Aggregator
}

func NewHandler(svc *invoice.Service, agg *invoice.Aggregator) *Handler {
	return &Handler{svc: svc, agg: agg}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/unpaid", h.unpaid)
	r.Get("/items", h.items)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/paid", h.markPaid)
	r.Delete("/{id}/paid", h.markUnpaid)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(inv))
}

// list accepts start, end, paid and client_id filters and returns newest first.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rng, err := respond.Range(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	paid, err := respond.Bool(r, "paid")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	q := invoice.Query{
		Filter: invoice.Filter{Range: rng, Paid: paid},
		Sort:   invoice.SortDateDesc,
	}

	if raw := r.URL.Query().Get("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respond.Error(w, r, validate.Field("client_id", "must be a uuid"))
			return
		}

		q.ClientID = &id
	}

	invs, err := h.svc.List(r.Context(), q)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(invs))
}

func (h *Handler) unpaid(w http.ResponseWriter, r *http.Request) {
	invs, err := h.agg.ListUnpaidInvoices(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(invs))
}

// items flattens line items across invoices. paid defaults to false, which
// includes unpaid invoices.
func (h *Handler) items(w http.ResponseWriter, r *http.Request) {
	rng, err := respond.Range(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	paid, err := respond.Bool(r, "paid")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	paidOnly := paid != nil && *paid

	var rows []invoice.ItemRow

	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := invoice.ParseItemType(raw)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		rows, err = h.agg.ListItemsByType(r.Context(), t, rng, paidOnly)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
	} else {
		rows, err = h.agg.ListItems(r.Context(), rng, paidOnly)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	respond.JSON(w, http.StatusOK, toRowResponses(rows))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req invoiceRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.Update(r.Context(), id, req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// markPaid takes an optional body; without date_paid the invoice is paid today.
func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req paidRequest
	if r.ContentLength > 0 {
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	var datePaid time.Time
	if req.DatePaid != nil {
		datePaid = req.DatePaid.Time()
	}

	inv, err := h.svc.MarkPaid(r.Context(), id, datePaid)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) markUnpaid(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.MarkUnpaid(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

package details

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/details"
	"github.com/MrJamesThe3rd/invoicer/internal/http/respond"
)

type Handler struct {
	svc *details.Service
}

func NewHandler(svc *details.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.save)
}

type detailsResponse struct {
	Name          string    `json:"name"`
	TaxReference  string    `json:"tax_reference,omitempty"`
	BankName      string    `json:"bank_name,omitempty"`
	SortCode      string    `json:"sort_code,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	Contact       string    `json:"contact,omitempty"`
	Farewell      string    `json:"farewell,omitempty"`
	Address       []string  `json:"address"`
	Postcode      string    `json:"postcode,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toResponse(d *details.Details) detailsResponse {
	return detailsResponse{
		Name:          d.Name,
		TaxReference:  d.TaxReference,
		BankName:      d.BankName,
		SortCode:      d.SortCode,
		AccountNumber: d.AccountNumber,
		Contact:       d.Contact,
		Farewell:      d.Farewell,
		Address:       d.Address,
		Postcode:      d.Postcode,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context())
	if err != nil {
		if errors.Is(err, details.ErrNotConfigured) {
			respond.JSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}

		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var params details.Params
	if err := respond.Decode(r, &params); err != nil {
		respond.Error(w, r, err)
		return
	}

	d, err := h.svc.Save(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(d))
}

// Package respond holds the JSON plumbing shared by the API handlers.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/details"
	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/bank"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/report"
	"github.com/MrJamesThe3rd/invoicer/internal/user"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

// NoDataRedirect is where the dashboard sends callers while there are no invoices.
const NoDataRedirect = "/api/v1/invoices"

type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Notice string `json:"notice,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error maps domain errors to status codes. Unknown errors are logged and
// reported as a bare 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Error

	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, daterange.ErrInvalidRange):
		JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "end"})
	case errors.Is(err, bank.ErrUnknownFormat):
		JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "file"})
	case errors.Is(err, invoice.ErrNotFound),
		errors.Is(err, client.ErrNotFound),
		errors.Is(err, expense.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		JSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, invoice.ErrPaid),
		errors.Is(err, client.ErrHasInvoices),
		errors.Is(err, details.ErrNotConfigured),
		errors.Is(err, user.ErrEmailTaken):
		JSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrInvalidToken):
		JSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, export.ErrEmptyExport):
		JSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  err.Error(),
			Notice: "There is nothing to export for the selected period.",
		})
	case errors.Is(err, report.ErrNoData):
		http.Redirect(w, r, NoDataRedirect, http.StatusSeeOther)
	case errors.Is(err, context.DeadlineExceeded):
		JSON(w, http.StatusGatewayTimeout, errorResponse{Error: "request timed out"})
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// Decode reads a JSON body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return validate.Field("body", err.Error())
	}

	return nil
}

func ID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, validate.Field("id", "must be a uuid")
	}

	return id, nil
}

// Range reads the optional start and end query parameters.
func Range(r *http.Request) (*daterange.Range, error) {
	q := r.URL.Query()
	return daterange.ParseOptional(q.Get("start"), q.Get("end"))
}

// Bool reads an optional true/false query parameter.
func Bool(r *http.Request, name string) (*bool, error) {
	switch strings.ToLower(r.URL.Query().Get(name)) {
	case "":
		return nil, nil
	case "true", "1", "yes":
		return new(true), nil
	case "false", "0", "no":
		return new(false), nil
	}

	return nil, validate.Field(name, "must be true or false")
}

// Date is a calendar day on the wire, "2006-01-02". Full RFC 3339 timestamps
// are accepted on input and truncated to their day.
type Date time.Time

func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	if s == "" {
		*d = Date{}
		return nil
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		*d = Date(t)
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}

	*d = Date(daterange.Day(t))

	return nil
}

// DatePtr converts an optional time for responses.
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}

	return new(Date(*t))
}

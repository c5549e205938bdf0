package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/app"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/report"
	"github.com/MrJamesThe3rd/invoicer/internal/user"
)

type harness struct {
	t       *testing.T
	app     *app.App
	handler http.Handler
	token   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{}
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.Issuer = "invoicer-test"
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Export.Dir = t.TempDir()

	a := app.New(cfg, app.MemoryStores(), report.NewMemoryCache(16, time.Minute))
	h := &harness{t: t, app: a, handler: a.Handler()}

	_, err := a.Users.Create(context.Background(), user.CreateParams{
		Email:    "admin@example.com",
		Password: "correct horse",
		Admin:    true,
	})
	require.NoError(t, err)

	h.token = h.login("admin@example.com", "correct horse")

	return h
}

func (h *harness) login(email, password string) string {
	h.t.Helper()

	rec := h.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp.Token
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	return rec
}

func (h *harness) authed(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	return h.do(method, path, h.token, body)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

type idResponse struct {
	ID string `json:"id"`
}

// seedInvoice configures the business, adds a client and issues one invoice
// dated three days ago.
func (h *harness) seedInvoice() string {
	h.t.Helper()

	rec := h.authed(http.MethodPut, "/api/v1/details", map[string]any{
		"name":    "Jo Joiner",
		"address": []string{"1 Bench Lane"},
	})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.authed(http.MethodPost, "/api/v1/clients", map[string]any{
		"name":    "Acme",
		"address": []string{"2 Road"},
	})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())

	client := decode[idResponse](h.t, rec)
	issued := time.Now().UTC().AddDate(0, 0, -3).Format(time.DateOnly)

	rec = h.authed(http.MethodPost, "/api/v1/invoices", map[string]any{
		"client_id": client.ID,
		"date":      issued,
		"items": []map[string]any{
			{"date": issued, "type": "Labour", "description": "Fitting", "fee": "120.00"},
			{"date": issued, "type": "Materials", "description": "Timber", "fee": "30.50"},
		},
	})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[idResponse](h.t, rec).ID
}

func TestAuth(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/v1/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.authed(http.MethodPost, "/api/v1/users", map[string]any{"email": "clerk@example.com", "password": "12345678"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	clerk := h.login("clerk@example.com", "12345678")

	rec = h.do(http.MethodGet, "/api/v1/users", clerk, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/clients", clerk, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/auth/logout", clerk, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/clients", clerk, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	h := newHarness(t)
	h.seedInvoice()

	rec := h.authed(http.MethodPost, "/api/v1/users", map[string]any{"email": "clerk@example.com", "password": "12345678"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	clerk := h.login("clerk@example.com", "12345678")
	start := time.Now().UTC().AddDate(0, 0, -7).Format(time.DateOnly)
	end := time.Now().UTC().Format(time.DateOnly)

	type testCase struct {
		name      string
		path      string
		wantAdmin int
	}

	tests := []testCase{
		{name: "dashboard", path: "/api/v1/dashboard", wantAdmin: http.StatusOK},
		{name: "report", path: "/api/v1/reports?start=" + start + "&end=" + end, wantAdmin: http.StatusOK},
		{name: "export", path: "/api/v1/export?kind=deductions", wantAdmin: http.StatusUnprocessableEntity},
		{name: "users", path: "/api/v1/users", wantAdmin: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(http.MethodGet, tt.path, clerk, nil)
			assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

			rec = h.authed(http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.wantAdmin, rec.Code, rec.Body.String())
		})
	}
}

func TestDetails_NotConfigured(t *testing.T) {
	h := newHarness(t)

	rec := h.authed(http.MethodGet, "/api/v1/details", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)

	rec := h.authed(http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/api/v1/invoices", rec.Header().Get("Location"))

	h.seedInvoice()

	rec = h.authed(http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	d := decode[report.Dashboard](t, rec)
	assert.Equal(t, 1, d.InvoiceCount)
	assert.Equal(t, 3, d.TradingDays)
	assert.Equal(t, "150.50", d.SumOwed.String())
	assert.Len(t, d.UnpaidInvoices, 1)
}

func TestInvoice_PaidLifecycle(t *testing.T) {
	h := newHarness(t)
	id := h.seedInvoice()

	rec := h.authed(http.MethodPost, "/api/v1/invoices/"+id+"/paid", map[string]any{"date_paid": "2024-03-01"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	inv := decode[struct {
		Paid     bool   `json:"paid"`
		DatePaid string `json:"date_paid"`
		Total    string `json:"total"`
	}](t, rec)
	assert.True(t, inv.Paid)
	assert.Equal(t, "2024-03-01", inv.DatePaid)
	assert.Equal(t, "150.50", inv.Total)

	rec = h.authed(http.MethodDelete, "/api/v1/invoices/"+id, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.authed(http.MethodGet, "/api/v1/invoices/unpaid", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = h.authed(http.MethodDelete, "/api/v1/invoices/"+id+"/paid", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.authed(http.MethodDelete, "/api/v1/invoices/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.authed(http.MethodGet, "/api/v1/invoices/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvoice_Items(t *testing.T) {
	h := newHarness(t)
	h.seedInvoice()

	rec := h.authed(http.MethodGet, "/api/v1/invoices/items?type=labour", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rows := decode[[]struct {
		Description string `json:"description"`
		Fee         string `json:"fee"`
	}](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "Fitting", rows[0].Description)
	assert.Equal(t, "120.00", rows[0].Fee)

	rec = h.authed(http.MethodGet, "/api/v1/invoices/items?paid=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = h.authed(http.MethodGet, "/api/v1/invoices/items?type=plumbing", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReport_RequiresRange(t *testing.T) {
	h := newHarness(t)
	h.seedInvoice()

	rec := h.authed(http.MethodGet, "/api/v1/reports", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.authed(http.MethodGet, "/api/v1/reports?start=2024-02-01&end=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	today := time.Now().UTC().Format(time.DateOnly)
	start := time.Now().UTC().AddDate(0, 0, -6).Format(time.DateOnly)

	rec = h.authed(http.MethodGet, "/api/v1/reports?start="+start+"&end="+today, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rep := decode[report.Report](t, rec)
	assert.Equal(t, 1, rep.InvoiceCount)
	assert.Equal(t, "150.50", rep.SumUnpaid.String())
}

func TestExport(t *testing.T) {
	h := newHarness(t)

	rec := h.authed(http.MethodGet, "/api/v1/export?kind=incoming", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "nothing to export")

	rec = h.authed(http.MethodGet, "/api/v1/export?kind=wages", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := h.seedInvoice()

	rec = h.authed(http.MethodGet, "/api/v1/export?kind=incoming", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, "unpaid items are not income yet")

	rec = h.authed(http.MethodPost, "/api/v1/invoices/"+id+"/paid", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.authed(http.MethodGet, "/api/v1/export?kind=incoming", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "incoming_all-time.csv")
	assert.Equal(t, "2", rec.Header().Get("X-Export-Rows"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Invoice,Invoice date,Client,Date,Type,Description,Fee", lines[0])
}

func TestImport_ConfirmConflicts(t *testing.T) {
	h := newHarness(t)

	rec := h.authed(http.MethodPost, "/api/v1/matching", map[string]any{
		"raw_pattern": "TRAINLINE",
		"description": "Rail fare",
		"category":    "travel",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	statement := "Date,Description,Amount\n" +
		"03/01/2024,TRAINLINE.COM LONDON,-42.10\n" +
		"04/01/2024,CLIENT PAYMENT,500.00\n"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "statement.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(statement))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+h.token)

	upload := httptest.NewRecorder()
	h.handler.ServeHTTP(upload, req)
	require.Equal(t, http.StatusOK, upload.Code, upload.Body.String())

	drafts := decode[[]map[string]any](t, upload)
	require.Len(t, drafts, 1)
	assert.Equal(t, "travel", drafts[0]["category"])
	assert.Equal(t, "Rail fare", drafts[0]["description"])
	assert.Equal(t, "42.10", drafts[0]["amount"])
	assert.Equal(t, true, drafts[0]["matched"])

	delete(drafts[0], "matched")
	confirm := map[string]any{"expenses": drafts}

	rec = h.authed(http.MethodPost, "/api/v1/import/confirm", confirm)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.authed(http.MethodPost, "/api/v1/import/confirm", confirm)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	conflicts := decode[struct {
		Conflicts []struct {
			Existing struct {
				Description string `json:"description"`
			} `json:"existing"`
		} `json:"conflicts"`
	}](t, rec)
	require.Len(t, conflicts.Conflicts, 1)
	assert.Equal(t, "Rail fare", conflicts.Conflicts[0].Existing.Description)

	confirm["force"] = true

	rec = h.authed(http.MethodPost, "/api/v1/import/confirm", confirm)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.authed(http.MethodGet, "/api/v1/expenses?category=travel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)
}

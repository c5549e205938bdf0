package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/invoicer/internal/http/auth"
	"github.com/MrJamesThe3rd/invoicer/internal/http/client"
	"github.com/MrJamesThe3rd/invoicer/internal/http/details"
	"github.com/MrJamesThe3rd/invoicer/internal/http/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/http/export"
	"github.com/MrJamesThe3rd/invoicer/internal/http/importcsv"
	"github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/http/matching"
	"github.com/MrJamesThe3rd/invoicer/internal/http/report"
	"github.com/MrJamesThe3rd/invoicer/internal/http/user"
)

type Options struct {
	Timeout     time.Duration
	CORSOrigins []string
}

type Handlers struct {
	Auth     *auth.Handler
	Users    *user.Handler
	Clients  *client.Handler
	Details  *details.Handler
	Invoices *invoice.Handler
	Expenses *expense.Handler
	Import   *importcsv.Handler
	Matching *matching.Handler
	Reports  *report.Handler
	Export   *export.Handler
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Export-Rows"},
		MaxAge:         300,
	}))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", h.Auth.Routes)

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Authenticate)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))

				r.Route("/clients", h.Clients.Routes)
				r.Route("/details", h.Details.Routes)
				r.Route("/invoices", h.Invoices.Routes)
				r.Route("/expenses", h.Expenses.Routes)
				r.Route("/matching", h.Matching.Routes)
			})

			r.Route("/import", h.Import.Routes)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)

				r.Route("/export", h.Export.Routes)
				r.Route("/users", h.Users.Routes)
				h.Reports.Routes(r)
			})
		})
	})

	return router
}

// Package app wires stores, services and HTTP handlers together.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	clientstore "github.com/MrJamesThe3rd/invoicer/internal/client/store"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/details"
	detailsstore "github.com/MrJamesThe3rd/invoicer/internal/details/store"
	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	expensestore "github.com/MrJamesThe3rd/invoicer/internal/expense/store"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	apihttp "github.com/MrJamesThe3rd/invoicer/internal/http"
	authhandler "github.com/MrJamesThe3rd/invoicer/internal/http/auth"
	clienthandler "github.com/MrJamesThe3rd/invoicer/internal/http/client"
	detailshandler "github.com/MrJamesThe3rd/invoicer/internal/http/details"
	expensehandler "github.com/MrJamesThe3rd/invoicer/internal/http/expense"
	exporthandler "github.com/MrJamesThe3rd/invoicer/internal/http/export"
	importhandler "github.com/MrJamesThe3rd/invoicer/internal/http/importcsv"
	invoicehandler "github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	matchinghandler "github.com/MrJamesThe3rd/invoicer/internal/http/matching"
	reporthandler "github.com/MrJamesThe3rd/invoicer/internal/http/report"
	userhandler "github.com/MrJamesThe3rd/invoicer/internal/http/user"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoicestore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/matching"
	matchingstore "github.com/MrJamesThe3rd/invoicer/internal/matching/store"
	"github.com/MrJamesThe3rd/invoicer/internal/report"
	"github.com/MrJamesThe3rd/invoicer/internal/user"
	userstore "github.com/MrJamesThe3rd/invoicer/internal/user/store"
)

type Stores struct {
	Clients  client.Repository
	Details  details.Repository
	Invoices invoice.Repository
	Expenses expense.Repository
	Users    user.Repository
	Mappings matching.Repository
}

func PostgresStores(db *sql.DB) Stores {
	return Stores{
		Clients:  clientstore.New(db),
		Details:  detailsstore.New(db),
		Invoices: invoicestore.New(db),
		Expenses: expensestore.New(db),
		Users:    userstore.New(db),
		Mappings: matchingstore.New(db),
	}
}

// MemoryStores keeps everything in process; data is lost on exit.
func MemoryStores() Stores {
	return Stores{
		Clients:  clientstore.NewMemory(),
		Details:  detailsstore.NewMemory(),
		Invoices: invoicestore.NewMemory(),
		Expenses: expensestore.NewMemory(),
		Users:    userstore.NewMemory(),
		Mappings: matchingstore.NewMemory(),
	}
}

type App struct {
	Clients  *client.Service
	Details  *details.Service
	Invoices *invoice.Service
	Expenses *expense.Service
	Users    *user.Service
	Matching *matching.Service
	Importer *importer.Service
	Export   *export.Service
	Composer *report.Composer

	InvoiceAggregator *invoice.Aggregator
	ExpenseAggregator *expense.Aggregator

	cfg *config.Config
}

// New builds the services. Any invoice or expense write purges cached reports.
func New(cfg *config.Config, stores Stores, cache report.Cache) *App {
	a := &App{cfg: cfg}

	a.InvoiceAggregator = invoice.NewAggregator(stores.Invoices)
	a.ExpenseAggregator = expense.NewAggregator(stores.Expenses)

	a.Clients = client.NewService(stores.Clients, a.InvoiceAggregator)
	a.Details = details.NewService(stores.Details)
	a.Invoices = invoice.NewService(stores.Invoices, a.Clients, a.Details)
	a.Expenses = expense.NewService(stores.Expenses)
	a.Users = user.NewService(stores.Users, user.TokenConfig{
		Secret: []byte(cfg.Auth.Secret),
		TTL:    cfg.Auth.TokenTTL,
		Issuer: cfg.Auth.Issuer,
	})
	a.Matching = matching.NewService(stores.Mappings)
	a.Importer = importer.NewService(a.Matching)
	a.Export = export.NewService(a.InvoiceAggregator, a.ExpenseAggregator)
	a.Composer = report.NewComposer(a.InvoiceAggregator, a.ExpenseAggregator, cfg.ReportConfig(), report.WithCache(cache))

	a.Invoices.OnChange(a.Composer.Purge)
	a.Expenses.OnChange(a.Composer.Purge)

	return a
}

// Cache picks the report cache named by Cache.Backend.
func Cache(cfg *config.Config) (report.Cache, error) {
	switch cfg.Cache.Backend {
	case "none", "":
		return report.NopCache{}, nil
	case "memory":
		return report.NewMemoryCache(cfg.Cache.Size, cfg.Cache.TTL), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
		slog.Info("using redis report cache", "addr", cfg.Cache.RedisAddr, "db", cfg.Cache.RedisDB)

		return report.NewRedisCache(rdb, cfg.Cache.Prefix, cfg.Cache.TTL), nil
	}

	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

func (a *App) Handler() http.Handler {
	auth := authhandler.NewHandler(a.Users)

	return apihttp.New(apihttp.Handlers{
		Auth:     auth,
		Users:    userhandler.NewHandler(a.Users),
		Clients:  clienthandler.NewHandler(a.Clients, a.InvoiceAggregator),
		Details:  detailshandler.NewHandler(a.Details),
		Invoices: invoicehandler.NewHandler(a.Invoices, a.InvoiceAggregator),
		Expenses: expensehandler.NewHandler(a.Expenses),
		Import:   importhandler.NewHandler(a.Importer, a.Expenses),
		Matching: matchinghandler.NewHandler(a.Matching),
		Reports:  reporthandler.NewHandler(a.Composer),
		Export:   exporthandler.NewHandler(a.Export, a.cfg.Export.Dir),
	}, apihttp.Options{
		Timeout:     a.cfg.Server.Timeout,
		CORSOrigins: a.cfg.Server.CORSOrigins,
	})
}

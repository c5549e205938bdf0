package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logging"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

//go:generate mockgen -source=composer.go -destination=engine_mock.go -package=report
type InvoiceEngine interface {
	CountInvoices(ctx context.Context, r *daterange.Range) (int, error)
	CountPaidInvoices(ctx context.Context, r *daterange.Range) (int, error)
	CountUniqueClients(ctx context.Context) (int, error)
	SumPaidInvoiceValue(ctx context.Context, r *daterange.Range) (money.Amount, error)
	SumUnpaidInvoiceValue(ctx context.Context, r *daterange.Range) (money.Amount, error)
	CountItems(ctx context.Context, r *daterange.Range, paidOnly bool) (int, error)
	SumByType(ctx context.Context, r *daterange.Range, paidOnly bool) (map[invoice.ItemType]money.Amount, error)
	ListItemsByType(ctx context.Context, t invoice.ItemType, r *daterange.Range, paidOnly bool) ([]invoice.ItemRow, error)
	ListUnpaidInvoices(ctx context.Context) ([]*invoice.Invoice, error)
	FirstInvoiceDate(ctx context.Context) (time.Time, error)
	DaysWorked(ctx context.Context, r *daterange.Range) (int, error)
}

type ExpenseEngine interface {
	SumExpenses(ctx context.Context, r *daterange.Range) (money.Amount, error)
	SumByCategory(ctx context.Context, r *daterange.Range) (map[expense.Category]money.Amount, error)
	ListExpensesByCategory(ctx context.Context, c expense.Category, r *daterange.Range) ([]*expense.Expense, error)
}

type Composer struct {
	invoices InvoiceEngine
	expenses ExpenseEngine
	cfg      Config
	cache    Cache
	now      func() time.Time
	log      *slog.Logger

	// mu orders cache writes against purges; generation counts purges.
	mu         sync.Mutex
	generation uint64
}

type Option func(*Composer)

func WithCache(c Cache) Option {
	return func(cp *Composer) { cp.cache = c }
}

// WithClock replaces time.Now, which decides "today" for the dashboard.
func WithClock(now func() time.Time) Option {
	return func(cp *Composer) { cp.now = now }
}

func NewComposer(invoices InvoiceEngine, expenses ExpenseEngine, cfg Config, opts ...Option) *Composer {
	c := &Composer{
		invoices: invoices,
		expenses: expenses,
		cfg:      cfg,
		cache:    NopCache{},
		now:      time.Now,
		log:      logging.Component("report"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Purge drops cached reports. Services call it after every mutation.
func (c *Composer) Purge(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++

	if err := c.cache.Purge(ctx); err != nil {
		c.log.WarnContext(ctx, "failed to purge report cache", "error", err)
	}
}

func (c *Composer) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func (c *Composer) cached(ctx context.Context, key string, dest any) bool {
	hit, err := c.cache.Get(ctx, key, dest)
	if err != nil {
		c.log.WarnContext(ctx, "failed to read report cache", "key", key, "error", err)
		return false
	}

	return hit
}

func (c *Composer) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generation
}

// store caches v unless a purge ran since gen was read; such a build may
// predate the write that caused it.
func (c *Composer) store(ctx context.Context, key string, v any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		c.log.DebugContext(ctx, "report cache purged during build, not storing", "key", key)
		return
	}

	if err := c.cache.Set(ctx, key, v); err != nil {
		c.log.WarnContext(ctx, "failed to write report cache", "key", key, "error", err)
	}
}

// BuildDashboard composes the lifetime view. It returns ErrNoData while there are no invoices.
func (c *Composer) BuildDashboard(ctx context.Context) (*Dashboard, error) {
	today := daterange.Day(c.now())
	key := "dashboard:" + today.Format(time.DateOnly)

	gen := c.currentGeneration()

	var d Dashboard
	if c.cached(ctx, key, &d) {
		return &d, nil
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	var unpaid []*invoice.Invoice

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.FirstInvoiceDate, err = c.invoices.FirstInvoiceDate(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.UniqueClients, err = c.invoices.CountUniqueClients(gctx)
		return err
	})
	g.Go(func() (err error) {
		unpaid, err = c.invoices.ListUnpaidInvoices(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.SumOwed, err = c.invoices.SumUnpaidInvoiceValue(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		d.SumPaid, err = c.invoices.SumPaidInvoiceValue(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		d.ItemCount, err = c.invoices.CountItems(gctx, nil, false)
		return err
	})
	g.Go(func() (err error) {
		d.InvoiceCount, err = c.invoices.CountInvoices(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		d.SumExpenses, err = c.expenses.SumExpenses(gctx, nil)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, invoice.ErrNoData) {
			return nil, fmt.Errorf("%w: %w", ErrNoData, err)
		}

		return nil, fmt.Errorf("building dashboard: %w", err)
	}

	d.UnpaidInvoices = summarise(unpaid)
	d.TradingDays = max(daterange.DaysBetween(d.FirstInvoiceDate, today), 0)
	d.LifetimeNet = d.SumPaid - d.SumExpenses
	d.AverageWeeklyGross = money.PerWeek(d.SumPaid, d.TradingDays)
	d.AverageWeeklyNet = money.PerWeek(d.LifetimeNet, d.TradingDays)

	c.store(ctx, key, &d, gen)

	return &d, nil
}

// BuildReport composes every figure over r. Its trading days are the days in r.
func (c *Composer) BuildReport(ctx context.Context, r daterange.Range) (*Report, error) {
	key := fmt.Sprintf("report:%s:%s", r, daterange.Day(c.now()).Format(time.DateOnly))

	gen := c.currentGeneration()

	var rep Report
	if c.cached(ctx, key, &rep) {
		return &rep, nil
	}

	started := time.Now()

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	var (
		typeSums     map[invoice.ItemType]money.Amount
		categorySums map[expense.Category]money.Amount
	)

	typeItems := make([][]invoice.ItemRow, len(invoice.ItemTypes))
	categoryRows := make([][]*expense.Expense, len(expense.Categories))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		rep.InvoiceCount, err = c.invoices.CountInvoices(gctx, &r)
		return err
	})
	g.Go(func() (err error) {
		rep.PaidInvoiceCount, err = c.invoices.CountPaidInvoices(gctx, &r)
		return err
	})
	g.Go(func() (err error) {
		rep.SumPaid, err = c.invoices.SumPaidInvoiceValue(gctx, &r)
		return err
	})
	g.Go(func() (err error) {
		rep.SumUnpaid, err = c.invoices.SumUnpaidInvoiceValue(gctx, &r)
		return err
	})
	g.Go(func() (err error) {
		rep.ItemCount, err = c.invoices.CountItems(gctx, &r, false)
		return err
	})
	g.Go(func() (err error) {
		rep.DaysWorked, err = c.invoices.DaysWorked(gctx, &r)
		return err
	})
	g.Go(func() (err error) {
		typeSums, err = c.invoices.SumByType(gctx, &r, true)
		return err
	})
	g.Go(func() (err error) {
		rep.SumExpenses, err = c.expenses.SumExpenses(gctx, &r)
		return err
	})
	g.Go(func() (err error) {
		categorySums, err = c.expenses.SumByCategory(gctx, &r)
		return err
	})

	for i, t := range invoice.ItemTypes {
		g.Go(func() (err error) {
			typeItems[i], err = c.invoices.ListItemsByType(gctx, t, &r, true)
			return err
		})
	}

	for i, cat := range expense.Categories {
		g.Go(func() (err error) {
			categoryRows[i], err = c.expenses.ListExpensesByCategory(gctx, cat, &r)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	rep.Start = r.Start
	rep.End = r.End
	rep.TradingDays = r.Days()
	rep.Net = rep.SumPaid - rep.SumExpenses
	rep.AverageWeeklyIncome = money.PerWeek(rep.SumPaid, rep.TradingDays)
	rep.AverageWeeklyNet = money.PerWeek(rep.Net, rep.TradingDays)
	rep.TaxWithheld = typeSums[invoice.TypeLabour].Percent(c.cfg.TaxWithheldRate)
	rep.DaysPerWeek = daysPerWeek(rep.DaysWorked, rep.TradingDays)

	for i, t := range invoice.ItemTypes {
		rep.Types = append(rep.Types, TypeBreakdown{
			Type:  t,
			Sum:   typeSums[t],
			Items: itemLines(typeItems[i]),
		})
	}

	for i, cat := range expense.Categories {
		rep.Categories = append(rep.Categories, CategoryBreakdown{
			Category: cat,
			Label:    cat.Label(),
			Sum:      categorySums[cat],
			Expenses: expenseLines(categoryRows[i]),
		})
	}

	for _, ref := range c.cfg.References {
		rep.References = append(rep.References, ReferenceFigure{
			Name:    ref.Name,
			Weekly:  ref.Weekly,
			Percent: money.PercentOf(rep.AverageWeeklyIncome, ref.Weekly),
		})
	}

	if elapsed := time.Since(started); elapsed > time.Second {
		c.log.InfoContext(ctx, "slow report", "range", r.String(), "ms", elapsed.Milliseconds())
	}

	c.store(ctx, key, &rep, gen)

	return &rep, nil
}

func daysPerWeek(worked, days int) string {
	if days <= 0 {
		return "0.00"
	}

	return decimal.NewFromInt(int64(worked)).
		Mul(decimal.NewFromInt(7)).
		Div(decimal.NewFromInt(int64(days))).
		StringFixed(2)
}

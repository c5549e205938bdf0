package report_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	expensestore "github.com/MrJamesThe3rd/invoicer/internal/expense/store"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoicestore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
	"github.com/MrJamesThe3rd/invoicer/internal/report"
)

var cfg = report.Config{
	References: []report.Reference{
		{Name: "lower", Weekly: 32300},
		{Name: "upper", Weekly: 44000},
	},
	TaxWithheldRate: decimal.RequireFromString("0.20"),
	Timeout:         5 * time.Second,
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

type world struct {
	invoices *invoicestore.Memory
	expenses *expensestore.Memory
}

func (w *world) composer(opts ...report.Option) *report.Composer {
	return report.NewComposer(
		invoice.NewAggregator(w.invoices),
		expense.NewAggregator(w.expenses),
		cfg,
		append([]report.Option{report.WithClock(func() time.Time { return day(15).Add(10 * time.Hour) })}, opts...)...,
	)
}

// fortnight seeds three clients with a paid and an unpaid invoice each, plus
// three expenses of 200.00, all inside 2024-01-01..2024-01-14.
func fortnight(t *testing.T) *world {
	t.Helper()

	ctx := context.Background()
	w := &world{invoices: invoicestore.NewMemory(), expenses: expensestore.NewMemory()}

	number := 0
	for i, name := range []string{"Acme", "Bolt & Co", "Crane Ltd"} {
		client := invoice.ClientSnapshot{ID: uuid.New(), Name: name}
		issued := day(2 + i*3)

		for _, paid := range []bool{true, false} {
			number++

			inv := &invoice.Invoice{
				Number: number,
				Date:   issued,
				Client: client,
				Items: []invoice.Item{
					{Date: issued.AddDate(0, 0, -1), Type: invoice.TypeMaterials, Description: "Sheet goods", Fee: 2000},
					{Date: issued.AddDate(0, 0, -1), Type: invoice.TypeLabour, Description: "Cutting", Fee: 4000},
					{Date: issued, Type: invoice.TypeLabour, Description: "Fitting", Fee: 4000},
				},
			}

			if paid {
				inv.Paid = true
				inv.DatePaid = new(issued.AddDate(0, 0, 2))
			}

			require.NoError(t, w.invoices.CreateInvoice(ctx, inv))
		}
	}

	for i, cat := range []expense.Category{expense.CategoryOffice, expense.CategoryTravel, expense.CategoryOffice} {
		require.NoError(t, w.expenses.CreateExpense(ctx, &expense.Expense{
			Date:        day(3 + i*4),
			Category:    cat,
			Description: "Supplies",
			Amount:      20000,
		}))
	}

	return w
}

func fortnightRange(t *testing.T) daterange.Range {
	t.Helper()

	r, err := daterange.New(day(1), day(14))
	require.NoError(t, err)

	return r
}

func TestComposer_BuildReport(t *testing.T) {
	w := fortnight(t)

	rep, err := w.composer().BuildReport(context.Background(), fortnightRange(t))
	require.NoError(t, err)

	assert.Equal(t, 14, rep.TradingDays)
	assert.Equal(t, 6, rep.InvoiceCount)
	assert.Equal(t, 3, rep.PaidInvoiceCount)
	assert.Equal(t, "300.00", rep.SumPaid.String())
	assert.Equal(t, "300.00", rep.SumUnpaid.String())
	assert.Equal(t, 18, rep.ItemCount)
	assert.Equal(t, "600.00", rep.SumExpenses.String())
	assert.Equal(t, "-300.00", rep.Net.String())
	assert.Equal(t, "150.00", rep.AverageWeeklyIncome.String())
	assert.Equal(t, "-150.00", rep.AverageWeeklyNet.String())
	assert.Equal(t, "48.00", rep.TaxWithheld.String())
	assert.Equal(t, 6, rep.DaysWorked)
	assert.Equal(t, "3.00", rep.DaysPerWeek)

	require.Len(t, rep.Types, 3)
	assert.Equal(t, invoice.TypeLabour, rep.Types[0].Type)
	assert.Equal(t, "240.00", rep.Types[0].Sum.String())
	assert.Len(t, rep.Types[0].Items, 6)
	assert.Equal(t, "60.00", rep.Types[1].Sum.String())
	assert.Equal(t, money.Zero, rep.Types[2].Sum)
	assert.Empty(t, rep.Types[2].Items)

	require.Len(t, rep.Categories, len(expense.Categories))
	assert.Equal(t, expense.CategoryOffice, rep.Categories[0].Category)
	assert.Equal(t, "400.00", rep.Categories[0].Sum.String())
	assert.Len(t, rep.Categories[0].Expenses, 2)
	assert.Equal(t, "200.00", rep.Categories[1].Sum.String())

	require.Len(t, rep.References, 2)
	assert.Equal(t, "46.44", rep.References[0].Percent)
	assert.Equal(t, "34.09", rep.References[1].Percent)
}

func TestComposer_BuildReport_Idempotent(t *testing.T) {
	w := fortnight(t)
	c := w.composer()
	r := fortnightRange(t)

	first, err := c.BuildReport(context.Background(), r)
	require.NoError(t, err)

	second, err := c.BuildReport(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComposer_BuildReport_EmptyRange(t *testing.T) {
	w := fortnight(t)

	r, err := daterange.New(day(20), day(20))
	require.NoError(t, err)

	rep, err := w.composer().BuildReport(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, 1, rep.TradingDays)
	assert.Equal(t, "0.00", rep.SumPaid.String())
	assert.Equal(t, "0.00", rep.SumExpenses.String())
	assert.Equal(t, "0.00", rep.DaysPerWeek)
	assert.Equal(t, "0.00", rep.References[0].Percent)
}

func TestComposer_BuildDashboard(t *testing.T) {
	w := fortnight(t)

	d, err := w.composer().BuildDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.UniqueClients)
	assert.Equal(t, day(2), d.FirstInvoiceDate)
	assert.Equal(t, 13, d.TradingDays)
	assert.Len(t, d.UnpaidInvoices, 3)
	assert.Equal(t, "300.00", d.SumOwed.String())
	assert.Equal(t, "300.00", d.SumPaid.String())
	assert.Equal(t, 18, d.ItemCount)
	assert.Equal(t, 6, d.InvoiceCount)
	assert.Equal(t, "600.00", d.SumExpenses.String())
	assert.Equal(t, "-300.00", d.LifetimeNet.String())
	assert.Equal(t, "161.54", d.AverageWeeklyGross.String())
	assert.Equal(t, "-161.54", d.AverageWeeklyNet.String())
	assert.Equal(t, money.Amount(10000), d.UnpaidInvoices[0].Total)
}

func TestComposer_BuildDashboard_NoData(t *testing.T) {
	w := &world{invoices: invoicestore.NewMemory(), expenses: expensestore.NewMemory()}

	_, err := w.composer().BuildDashboard(context.Background())
	assert.ErrorIs(t, err, report.ErrNoData)
	assert.ErrorIs(t, err, invoice.ErrNoData)
}

func TestComposer_BuildDashboard_FirstInvoiceToday(t *testing.T) {
	w := &world{invoices: invoicestore.NewMemory(), expenses: expensestore.NewMemory()}
	require.NoError(t, w.invoices.CreateInvoice(context.Background(), &invoice.Invoice{
		Number: 1,
		Date:   day(15),
		Paid:   true,
		Items:  []invoice.Item{{Date: day(15), Type: invoice.TypeLabour, Fee: 5000}},
	}))

	d, err := w.composer().BuildDashboard(context.Background())
	require.NoError(t, err)

	assert.Zero(t, d.TradingDays)
	assert.Equal(t, money.Zero, d.AverageWeeklyGross)
}

func TestComposer_CachePurge(t *testing.T) {
	w := fortnight(t)
	cache := report.NewMemoryCache(10, time.Minute)
	c := w.composer(report.WithCache(cache))
	r := fortnightRange(t)
	ctx := context.Background()

	before, err := c.BuildReport(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	require.NoError(t, w.expenses.CreateExpense(ctx, &expense.Expense{
		Date: day(10), Category: expense.CategoryLegal, Description: "Accountant", Amount: 5000,
	}))

	stale, err := c.BuildReport(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, before.SumExpenses, stale.SumExpenses)

	c.Purge(ctx)

	fresh, err := c.BuildReport(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "650.00", fresh.SumExpenses.String())
}

// writeDuringBuild records an expense and purges the cache the first time the
// build asks for an invoice count, as a concurrent mutation would.
type writeDuringBuild struct {
	report.InvoiceEngine
	once  sync.Once
	write func()
}

func (e *writeDuringBuild) CountInvoices(ctx context.Context, r *daterange.Range) (int, error) {
	e.once.Do(e.write)
	return e.InvoiceEngine.CountInvoices(ctx, r)
}

func TestComposer_PurgeDuringBuildSkipsCache(t *testing.T) {
	w := fortnight(t)
	cache := report.NewMemoryCache(10, time.Minute)
	r := fortnightRange(t)
	ctx := context.Background()

	engine := &writeDuringBuild{InvoiceEngine: invoice.NewAggregator(w.invoices)}
	c := report.NewComposer(
		engine,
		expense.NewAggregator(w.expenses),
		cfg,
		report.WithCache(cache),
		report.WithClock(func() time.Time { return day(15).Add(10 * time.Hour) }),
	)

	engine.write = func() {
		assert.NoError(t, w.expenses.CreateExpense(ctx, &expense.Expense{
			Date: day(10), Category: expense.CategoryLegal, Description: "Accountant", Amount: 5000,
		}))
		c.Purge(ctx)
	}

	_, err := c.BuildReport(ctx, r)
	require.NoError(t, err)
	assert.Zero(t, cache.Len())

	fresh, err := c.BuildReport(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "650.00", fresh.SumExpenses.String())
	assert.Equal(t, 1, cache.Len())
}

func TestComposer_PropagatesStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)

	invoices := report.NewMockInvoiceEngine(ctrl)
	expenses := report.NewMockExpenseEngine(ctrl)

	failure := errors.New("connection refused")

	invoices.EXPECT().FirstInvoiceDate(gomock.Any()).Return(time.Time{}, failure)
	invoices.EXPECT().CountUniqueClients(gomock.Any()).Return(0, nil).AnyTimes()
	invoices.EXPECT().ListUnpaidInvoices(gomock.Any()).Return(nil, nil).AnyTimes()
	invoices.EXPECT().SumUnpaidInvoiceValue(gomock.Any(), gomock.Any()).Return(money.Zero, nil).AnyTimes()
	invoices.EXPECT().SumPaidInvoiceValue(gomock.Any(), gomock.Any()).Return(money.Zero, nil).AnyTimes()
	invoices.EXPECT().CountItems(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()
	invoices.EXPECT().CountInvoices(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()
	expenses.EXPECT().SumExpenses(gomock.Any(), gomock.Any()).Return(money.Zero, nil).AnyTimes()

	_, err := report.NewComposer(invoices, expenses, cfg).BuildDashboard(context.Background())
	assert.ErrorIs(t, err, failure)
	assert.NotErrorIs(t, err, report.ErrNoData)
}

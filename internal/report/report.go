// Package report composes the dashboard and range reports from the invoice and
// expense aggregation engines.
package report

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

// ErrNoData means there are no invoices yet, so lifetime figures are undefined.
var ErrNoData = errors.New("no invoices to report on")

// Reference is a weekly income threshold the report compares against.
type Reference struct {
	Name   string       `json:"name"`
	Weekly money.Amount `json:"weekly"`
}

type Config struct {
	References      []Reference
	TaxWithheldRate decimal.Decimal
	Timeout         time.Duration
}

type Dashboard struct {
	UniqueClients      int              `json:"unique_clients"`
	FirstInvoiceDate   time.Time        `json:"first_invoice_date"`
	TradingDays        int              `json:"trading_days"`
	UnpaidInvoices     []InvoiceSummary `json:"unpaid_invoices"`
	SumOwed            money.Amount     `json:"sum_owed"`
	SumPaid            money.Amount     `json:"sum_paid"`
	ItemCount          int              `json:"item_count"`
	InvoiceCount       int              `json:"invoice_count"`
	SumExpenses        money.Amount     `json:"sum_expenses"`
	AverageWeeklyGross money.Amount     `json:"average_weekly_gross"`
	AverageWeeklyNet   money.Amount     `json:"average_weekly_net"`
	LifetimeNet        money.Amount     `json:"lifetime_net"`
}

type InvoiceSummary struct {
	ID         uuid.UUID    `json:"id"`
	Number     int          `json:"number"`
	Date       time.Time    `json:"date"`
	ClientName string       `json:"client_name"`
	Total      money.Amount `json:"total"`
}

type Report struct {
	Start               time.Time           `json:"start"`
	End                 time.Time           `json:"end"`
	TradingDays         int                 `json:"trading_days"`
	InvoiceCount        int                 `json:"invoice_count"`
	PaidInvoiceCount    int                 `json:"paid_invoice_count"`
	SumPaid             money.Amount        `json:"sum_paid"`
	SumUnpaid           money.Amount        `json:"sum_unpaid"`
	ItemCount           int                 `json:"item_count"`
	SumExpenses         money.Amount        `json:"sum_expenses"`
	Net                 money.Amount        `json:"net"`
	Categories          []CategoryBreakdown `json:"categories"`
	Types               []TypeBreakdown     `json:"types"`
	AverageWeeklyIncome money.Amount        `json:"average_weekly_income"`
	AverageWeeklyNet    money.Amount        `json:"average_weekly_net"`
	TaxWithheld         money.Amount        `json:"tax_withheld"`
	DaysWorked          int                 `json:"days_worked"`
	DaysPerWeek         string              `json:"days_per_week"`
	References          []ReferenceFigure   `json:"references"`
}

type CategoryBreakdown struct {
	Category expense.Category `json:"category"`
	Label    string           `json:"label"`
	Sum      money.Amount     `json:"sum"`
	Expenses []ExpenseLine    `json:"expenses"`
}

type ExpenseLine struct {
	ID          uuid.UUID    `json:"id"`
	Date        time.Time    `json:"date"`
	Description string       `json:"description"`
	Amount      money.Amount `json:"amount"`
}

type TypeBreakdown struct {
	Type  invoice.ItemType `json:"type"`
	Sum   money.Amount     `json:"sum"`
	Items []ItemLine       `json:"items"`
}

type ItemLine struct {
	InvoiceNo   int          `json:"invoice_no"`
	InvoiceDate time.Time    `json:"invoice_date"`
	ClientName  string       `json:"client_name"`
	Date        time.Time    `json:"date"`
	Description string       `json:"description"`
	Fee         money.Amount `json:"fee"`
}

// ReferenceFigure is average weekly income as a percentage of a reference threshold.
type ReferenceFigure struct {
	Name    string       `json:"name"`
	Weekly  money.Amount `json:"weekly"`
	Percent string       `json:"percent"`
}

func summarise(invs []*invoice.Invoice) []InvoiceSummary {
	out := make([]InvoiceSummary, len(invs))
	for i, inv := range invs {
		out[i] = InvoiceSummary{
			ID:         inv.ID,
			Number:     inv.Number,
			Date:       inv.Date,
			ClientName: inv.Client.Name,
			Total:      inv.Total(),
		}
	}

	return out
}

func itemLines(rows []invoice.ItemRow) []ItemLine {
	out := make([]ItemLine, len(rows))
	for i, r := range rows {
		out[i] = ItemLine{
			InvoiceNo:   r.InvoiceNo,
			InvoiceDate: r.InvoiceDate,
			ClientName:  r.ClientName,
			Date:        r.Item.Date,
			Description: r.Item.Description,
			Fee:         r.Item.Fee,
		}
	}

	return out
}

func expenseLines(es []*expense.Expense) []ExpenseLine {
	out := make([]ExpenseLine, len(es))
	for i, e := range es {
		out[i] = ExpenseLine{
			ID:          e.ID,
			Date:        e.Date,
			Description: e.Description,
			Amount:      e.Amount,
		}
	}

	return out
}

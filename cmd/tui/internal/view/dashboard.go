package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/report"
)

type DashboardModel struct {
	CommonModel
	composer *report.Composer

	loading   bool
	dashboard *report.Dashboard
	unpaid    table.Model
	err       error
	spinner   spinner.Model
}

func NewDashboardModel(composer *report.Composer) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{
		composer: composer,
		loading:  true,
		unpaid:   newTable(invoiceSummaryColumns, 8),
		spinner:  s,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.loading = false
		m.dashboard, m.err = msg.dashboard, msg.err

		if m.dashboard != nil {
			m.unpaid.SetRows(invoiceSummaryRows(m.dashboard.UnpaidInvoices))
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		}
	}

	if m.loading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.unpaid, cmd = m.unpaid.Update(msg)

	return m, cmd
}

func (m DashboardModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.loading {
		return style.Render(m.spinner.View() + " Building dashboard...")
	}

	if errors.Is(m.err, report.ErrNoData) {
		return style.Render("No invoices yet. Create your first invoice to see the dashboard.\n\n(Esc to back)")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	d := m.dashboard

	var b strings.Builder
	b.WriteString(headingStyle.Render("Lifetime") + "\n\n")
	writeFigures(&b, [][2]string{
		{"First invoice", FormatDate(d.FirstInvoiceDate)},
		{"Trading days", fmt.Sprint(d.TradingDays)},
		{"Clients", fmt.Sprint(d.UniqueClients)},
		{"Invoices", fmt.Sprint(d.InvoiceCount)},
		{"Items billed", fmt.Sprint(d.ItemCount)},
		{"Paid", d.SumPaid.Pounds()},
		{"Owed", d.SumOwed.Pounds()},
		{"Expenses", d.SumExpenses.Pounds()},
		{"Net", d.LifetimeNet.Pounds()},
		{"Weekly gross", d.AverageWeeklyGross.Pounds()},
		{"Weekly net", d.AverageWeeklyNet.Pounds()},
	})

	b.WriteString("\n" + headingStyle.Render(fmt.Sprintf("Unpaid invoices (%d)", len(d.UnpaidInvoices))) + "\n")

	if len(d.UnpaidInvoices) == 0 {
		b.WriteString(faintStyle.Render("Everything is paid."))
	} else {
		b.WriteString(m.unpaid.View())
	}

	return style.Render(b.String())
}

// writeFigures renders label/value pairs as an aligned two-column block.
func writeFigures(b *strings.Builder, rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}

	for _, r := range rows {
		fmt.Fprintf(b, "%-*s  %s\n", width, r[0], r[1])
	}
}

type dashboardMsg struct {
	dashboard *report.Dashboard
	err       error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.composer.BuildDashboard(ctx)

		return dashboardMsg{dashboard: d, err: err}
	}
}

var invoiceSummaryColumns = []table.Column{
	{Title: "No.", Width: 6},
	{Title: "Date", Width: 12},
	{Title: "Client", Width: 30},
	{Title: "Total", Width: 12},
}

func invoiceSummaryRows(invs []report.InvoiceSummary) []table.Row {
	rows := make([]table.Row, 0, len(invs))
	for _, inv := range invs {
		rows = append(rows, table.Row{
			fmt.Sprint(inv.Number),
			FormatDate(inv.Date),
			inv.ClientName,
			inv.Total.Pounds(),
		})
	}

	return rows
}

func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/report"
)

type reportState int

const (
	reportStateTimeframe reportState = iota
	reportStateLoading
	reportStateResult
)

type ReportModel struct {
	CommonModel
	composer *report.Composer

	state           reportState
	timeframePicker TimeframePicker
	spinner         spinner.Model
	viewport        viewport.Model

	report *report.Report
	err    error
}

func NewReportModel(composer *report.Composer) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportModel{
		composer:        composer,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek, true),
		spinner:         s,
		viewport:        viewport.New(90, 30),
	}
}

func (m ReportModel) Title() string { return "Period Report" }

func (m ReportModel) ShortHelp() string {
	if m.state == reportStateResult {
		return "Esc: new range | ↑/↓: scroll"
	}

	return "Esc: back | Enter: select"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		if msg.Range == nil {
			return m, nil
		}

		m.state = reportStateLoading

		return m, tea.Batch(m.spinner.Tick, m.buildCmd(*msg.Range))

	case reportMsg:
		m.state = reportStateResult
		m.report, m.err = msg.report, msg.err

		if m.report != nil {
			m.viewport.SetContent(renderReport(m.report))
			m.viewport.GotoTop()
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6
	}

	switch m.state {
	case reportStateTimeframe:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd

	case reportStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case reportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = reportStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		}

		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ReportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case reportStateTimeframe:
		return style.Render(m.timeframePicker.View())
	case reportStateLoading:
		return style.Render(m.spinner.View() + " Building report...")
	}

	if errors.Is(m.err, report.ErrNoData) {
		return style.Render("No invoices yet, so there is nothing to report.\n\n(Esc to back)")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return style.Render(m.viewport.View())
}

func renderReport(r *report.Report) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render(fmt.Sprintf("%s to %s", FormatDate(r.Start), FormatDate(r.End))) + "\n\n")
	writeFigures(&b, [][2]string{
		{"Trading days", fmt.Sprint(r.TradingDays)},
		{"Invoices", fmt.Sprintf("%d (%d paid)", r.InvoiceCount, r.PaidInvoiceCount)},
		{"Items billed", fmt.Sprint(r.ItemCount)},
		{"Paid", r.SumPaid.Pounds()},
		{"Unpaid", r.SumUnpaid.Pounds()},
		{"Expenses", r.SumExpenses.Pounds()},
		{"Net", r.Net.Pounds()},
		{"Weekly income", r.AverageWeeklyIncome.Pounds()},
		{"Weekly net", r.AverageWeeklyNet.Pounds()},
		{"Tax withheld", r.TaxWithheld.Pounds()},
		{"Days worked", fmt.Sprintf("%d (%s per week)", r.DaysWorked, r.DaysPerWeek)},
	})

	if len(r.References) > 0 {
		b.WriteString("\n" + headingStyle.Render("Against reference rates") + "\n")

		for _, ref := range r.References {
			fmt.Fprintf(&b, "  %-10s %10s/wk  %s%%\n", ref.Name, ref.Weekly.Pounds(), ref.Percent)
		}
	}

	b.WriteString("\n" + headingStyle.Render("Income by type") + "\n")

	for _, t := range r.Types {
		fmt.Fprintf(&b, "  %s  %s (%d items)\n", t.Type, t.Sum.Pounds(), len(t.Items))

		for _, it := range t.Items {
			fmt.Fprintf(&b, "    %s  #%d %-20s %-30s %10s\n",
				FormatDate(it.Date), it.InvoiceNo, it.ClientName, it.Description, it.Fee.Pounds())
		}
	}

	b.WriteString("\n" + headingStyle.Render("Expenses by category") + "\n")

	for _, c := range r.Categories {
		fmt.Fprintf(&b, "  %s  %s (%d)\n", c.Label, c.Sum.Pounds(), len(c.Expenses))

		for _, e := range c.Expenses {
			fmt.Fprintf(&b, "    %s  %-40s %10s\n", FormatDate(e.Date), e.Description, e.Amount.Pounds())
		}
	}

	return b.String()
}

type reportMsg struct {
	report *report.Report
	err    error
}

func (m ReportModel) buildCmd(r daterange.Range) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rep, err := m.composer.BuildReport(ctx, r)

		return reportMsg{report: rep, err: err}
	}
}

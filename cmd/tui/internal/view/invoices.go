package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// PaymentsModel walks the unpaid invoices oldest first and records payment dates.
type PaymentsModel struct {
	CommonModel
	invoiceService *invoice.Service

	queue   []*invoice.Invoice
	current *invoice.Invoice

	dateInput textinput.Model

	loading    bool
	status     string
	totalCount int
	paidCount  int
}

func NewPaymentsModel(svc *invoice.Service) PaymentsModel {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10
	ti.Width = 12
	ti.Prompt = "Paid on: "

	return PaymentsModel{
		invoiceService: svc,
		dateInput:      ti,
		loading:        true,
	}
}

func (m PaymentsModel) Title() string { return "Record Payments" }

func (m PaymentsModel) ShortHelp() string {
	return "Enter: mark paid | s: skip | Esc: back"
}

func (m PaymentsModel) Init() tea.Cmd {
	return m.loadUnpaidCmd()
}

func (m PaymentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			if m.current != nil {
				return m.markPaid()
			}
		case "s":
			if m.current != nil {
				m.status = fmt.Sprintf("Skipped invoice #%d.", m.current.Number)
				m.next()

				return m, textinput.Blink
			}
		}

	case loadUnpaidMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.queue = msg.invoices
		m.totalCount = len(m.queue)
		m.next()

		return m, textinput.Blink

	case paymentMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error saving: %v", msg.err))
			break
		}

		m.paidCount++
		m.status = fmt.Sprintf("Invoice #%d marked paid on %s.", msg.invoice.Number, FormatDate(*msg.invoice.DatePaid))
		m.next()
	}

	m.dateInput, cmd = m.dateInput.Update(msg)

	return m, cmd
}

func (m PaymentsModel) markPaid() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.dateInput.Value())

	var paidOn time.Time

	if raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			m.status = errorStyle.Render("Invalid date (YYYY-MM-DD), or leave blank for today.")
			return m, nil
		}

		paidOn = t
	}

	return m, m.markPaidCmd(m.current, paidOn)
}

func (m PaymentsModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.loading {
		return style.Render("Loading unpaid invoices...")
	}

	if m.current == nil {
		if m.totalCount == 0 {
			return style.Render("No unpaid invoices.\n\n(Esc to back)")
		}

		return style.Render(fmt.Sprintf("%s\n\nAll done! %d of %d marked paid.\n\n(Esc to back)",
			m.status, m.paidCount, m.totalCount))
	}

	inv := m.current

	var items strings.Builder
	for _, it := range inv.Items {
		fmt.Fprintf(&items, "  %s  %-10s %-30s %10s\n", FormatDate(it.Date), it.Type, it.Description, it.Fee.Pounds())
	}

	info := fmt.Sprintf(
		"Invoice #%d  %s\nClient: %s\n\n%s\nTotal: %s\n",
		inv.Number,
		FormatDate(inv.Date),
		inv.Client.Name,
		items.String(),
		inv.Total().Pounds(),
	)

	return style.Render(
		fmt.Sprintf("%s\n\nUnpaid Invoice (%d remaining)\n\n%s\n%s\n\n(Enter to mark paid, blank date for today, 's' to skip, Esc to back)",
			m.status, len(m.queue)+1, info, m.dateInput.View()),
	)
}

func (m *PaymentsModel) next() {
	m.dateInput.SetValue("")

	if len(m.queue) == 0 {
		m.current = nil
		m.dateInput.Blur()

		return
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]
	m.dateInput.Focus()
}

type loadUnpaidMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m PaymentsModel) loadUnpaidCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := m.invoiceService.List(ctx, invoice.Query{
			Filter: invoice.Filter{Paid: new(false)},
			Sort:   invoice.SortDateAsc,
		})

		return loadUnpaidMsg{invoices: invs, err: err}
	}
}

type paymentMsg struct {
	invoice *invoice.Invoice
	err     error
}

func (m PaymentsModel) markPaidCmd(inv *invoice.Invoice, paidOn time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.invoiceService.MarkPaid(ctx, inv.ID, paidOn)

		return paymentMsg{invoice: updated, err: err}
	}
}

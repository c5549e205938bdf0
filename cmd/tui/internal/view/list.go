package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
)

var (
	paidFilterLabels = []string{"All", "Unpaid", "Paid"}
	dateFilterLabels = []string{"All Time", "This Month", "Last Month", "This Tax Year"}
)

type InvoiceListModel struct {
	CommonModel
	invoiceService *invoice.Service

	state    listState
	table    table.Model
	invoices []*invoice.Invoice
	form     *huh.Form

	paidFilterIdx int
	dateFilterIdx int

	query   invoice.Query
	loading bool
	err     error
	status  string

	formMessage *string
}

func NewInvoiceListModel(svc *invoice.Service) InvoiceListModel {
	columns := []table.Column{
		{Title: "No.", Width: 6},
		{Title: "Date", Width: 12},
		{Title: "Client", Width: 28},
		{Title: "Items", Width: 6},
		{Title: "Total", Width: 12},
		{Title: "Paid", Width: 12},
	}

	return InvoiceListModel{
		invoiceService: svc,
		table:          newTable(columns, 15),
		query:          invoice.Query{Sort: invoice.SortDateDesc},
		loading:        true,
	}
}

func (m InvoiceListModel) Title() string { return "Invoices" }

func (m InvoiceListModel) ShortHelp() string {
	if m.state == listStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: toggle paid | x: delete | e: edit message | s: paid filter | d: date filter | r: refresh"
}

func (m InvoiceListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoiceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.invoices = msg.invoices
		m.refreshTable()

		return m, nil

	case invoiceActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m InvoiceListModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	return m.invoices[idx]
}

func (m InvoiceListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "p":
			if inv := m.selected(); inv != nil {
				return m, m.togglePaidCmd(inv)
			}
		case "x":
			if inv := m.selected(); inv != nil {
				return m, m.deleteCmd(inv)
			}
		case "e":
			return m.enterEditMode()
		case "s":
			m.paidFilterIdx = (m.paidFilterIdx + 1) % len(paidFilterLabels)
			m.applyFilter()

			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilterLabels)
			m.applyFilter()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoiceListModel) enterEditMode() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	if inv.Paid {
		m.status = errorStyle.Render("Paid invoices cannot be edited; mark it unpaid first.")
		return m, nil
	}

	m.formMessage = new(inv.Message)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("message").
				Title("Message").
				CharLimit(2000).
				Value(m.formMessage),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m InvoiceListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveMessageCmd(m.selected(), *m.formMessage)
}

func (m InvoiceListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [s] Paid: %s | [d] Date: %s",
		activeStyle(paidFilterLabels[m.paidFilterIdx]),
		activeStyle(dateFilterLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateEdit && m.form != nil {
		title := ""
		if inv := m.selected(); inv != nil {
			title = fmt.Sprintf("Invoice #%d to %s", inv.Number, inv.Client.Name)
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *InvoiceListModel) applyFilter() {
	switch m.paidFilterIdx {
	case 1:
		m.query.Paid = new(false)
	case 2:
		m.query.Paid = new(true)
	default:
		m.query.Paid = nil
	}

	switch m.dateFilterIdx {
	case 1:
		m.query.Range = new(timeframeRange(TimeframeThisMonth, time.Now()))
	case 2:
		m.query.Range = new(timeframeRange(TimeframeLastMonth, time.Now()))
	case 3:
		m.query.Range = new(timeframeRange(TimeframeTaxYear, time.Now()))
	default:
		m.query.Range = nil
	}
}

func (m *InvoiceListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		paid := "-"
		if inv.DatePaid != nil {
			paid = FormatDate(*inv.DatePaid)
		}

		rows = append(rows, table.Row{
			fmt.Sprint(inv.Number),
			FormatDate(inv.Date),
			inv.Client.Name,
			fmt.Sprint(len(inv.Items)),
			inv.Total().Pounds(),
			paid,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoiceListModel) loadCmd() tea.Cmd {
	q := m.query

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := m.invoiceService.List(ctx, q)

		return loadInvoicesMsg{invoices: invs, err: err}
	}
}

type invoiceActionMsg struct {
	status string
	err    error
}

func (m InvoiceListModel) togglePaidCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if inv.Paid {
			_, err := m.invoiceService.MarkUnpaid(ctx, inv.ID)
			return invoiceActionMsg{status: fmt.Sprintf("Invoice #%d marked unpaid.", inv.Number), err: err}
		}

		_, err := m.invoiceService.MarkPaid(ctx, inv.ID, time.Time{})

		return invoiceActionMsg{status: fmt.Sprintf("Invoice #%d marked paid today.", inv.Number), err: err}
	}
}

func (m InvoiceListModel) deleteCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.invoiceService.Delete(ctx, inv.ID)

		return invoiceActionMsg{status: fmt.Sprintf("Invoice #%d deleted.", inv.Number), err: err}
	}
}

func (m InvoiceListModel) saveMessageCmd(inv *invoice.Invoice, message string) tea.Cmd {
	if inv == nil {
		return nil
	}

	items := make([]invoice.ItemParams, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, invoice.ItemParams{Date: it.Date, Type: it.Type, Description: it.Description, Fee: it.Fee})
	}

	params := invoice.CreateParams{
		Number:   inv.Number,
		ClientID: inv.Client.ID,
		Date:     inv.Date,
		Message:  message,
		Items:    items,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.invoiceService.Update(ctx, inv.ID, params)

		return invoiceActionMsg{status: fmt.Sprintf("Invoice #%d saved.", inv.Number), err: err}
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/invoicer/internal/app"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/logging"
)

type model struct {
	app *app.App

	currentView View
	active      tea.Model
}

type View int

const (
	ViewMenu View = iota
	ViewDashboard
	ViewReport
	ViewInvoices
	ViewPayments
	ViewExpenses
	ViewImport
	ViewExport
)

var menu = []struct {
	key   string
	view  View
	label string
}{
	{"1", ViewDashboard, "Dashboard"},
	{"2", ViewReport, "Period Report"},
	{"3", ViewInvoices, "Invoices"},
	{"4", ViewPayments, "Record Payments"},
	{"5", ViewExpenses, "Expenses"},
	{"6", ViewImport, "Import Bank Statement"},
	{"7", ViewExport, "Export"},
}

func (m model) open(v View) tea.Model {
	a := m.app

	switch v {
	case ViewDashboard:
		return view.NewDashboardModel(a.Composer)
	case ViewReport:
		return view.NewReportModel(a.Composer)
	case ViewInvoices:
		return view.NewInvoiceListModel(a.Invoices)
	case ViewPayments:
		return view.NewPaymentsModel(a.Invoices)
	case ViewExpenses:
		return view.NewExpensesModel(a.Expenses, a.Matching)
	case ViewImport:
		return view.NewImportModel(a.Expenses, a.Importer, a.Matching)
	case ViewExport:
		return view.NewExportModel(a.Export)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			for _, item := range menu {
				if msg.String() == item.key {
					m.currentView = item.view
					m.active = m.open(item.view)

					return m, m.active.Init()
				}
			}

			return m, nil
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.active, cmd = m.active.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.currentView != ViewMenu && m.active != nil {
		body := m.active.View()

		if v, ok := m.active.(view.View); ok {
			body += "\n" + lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp())
		}

		return body
	}

	s := "Invoicer\n\n"
	for _, item := range menu {
		s += fmt.Sprintf("%s. %s\n", item.key, item.label)
	}

	s += "\nq. Quit"

	return lipgloss.NewStyle().Padding(2).Render(s)
}

// logOutput keeps log lines off the terminal the TUI draws on. Set
// INVOICER_TUI_LOG to a file path to keep them.
func logOutput() (io.Writer, func(), error) {
	path := os.Getenv("INVOICER_TUI_LOG")
	if path == "" {
		return io.Discard, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	w, closeLog, err := logOutput()
	if err != nil {
		return err
	}
	defer closeLog()

	if err := logging.Setup(cfg.Log, w); err != nil {
		return err
	}

	ctx := context.Background()

	stores, closeStores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	cache, err := app.Cache(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model{app: app.New(cfg, stores, cache)}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "invoicer:", err)
		os.Exit(1)
	}
}

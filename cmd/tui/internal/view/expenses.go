package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/matching"
)

type expenseState int

const (
	expenseStateTimeframe expenseState = iota
	expenseStateList
	expenseStateEditing
)

// expenseItem wraps an expense to implement list.Item.
type expenseItem struct {
	e *expense.Expense
}

func (i expenseItem) Title() string {
	category := faintStyle.Render(fmt.Sprintf("[%s]", i.e.Category))
	return fmt.Sprintf("%s  %10s  %s  %s", FormatDate(i.e.Date), i.e.Amount.Pounds(), category, i.e.Description)
}

func (i expenseItem) Description() string {
	if i.e.RawDescription != "" && i.e.RawDescription != i.e.Description {
		return "Statement: " + i.e.RawDescription
	}

	return ""
}

func (i expenseItem) FilterValue() string {
	return i.e.Description + " " + i.e.RawDescription
}

type ExpensesModel struct {
	CommonModel
	expenseService  *expense.Service
	matchingService *matching.Service

	state           expenseState
	timeframePicker TimeframePicker
	list            list.Model
	form            *huh.Form
	expenses        []*expense.Expense
	selected        *expense.Expense

	rng     *daterange.Range
	loading bool
	status  string

	// edit holds the form bindings; it lives behind a pointer so copies of the
	// model share it.
	edit *expenseEdit
}

type expenseEdit struct {
	desc     string
	category expense.Category
	learn    bool
}

func NewExpensesModel(expenseSvc *expense.Service, matchSvc *matching.Service) ExpensesModel {
	l := list.New([]list.Item{}, expenseItemDelegate{}, 0, 0)
	l.Title = "Expenses"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return ExpensesModel{
		expenseService:  expenseSvc,
		matchingService: matchSvc,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek, false),
		list:            l,
	}
}

func (m ExpensesModel) Title() string { return "Manage Expenses" }

func (m ExpensesModel) ShortHelp() string {
	switch m.state {
	case expenseStateTimeframe:
		return "Esc: back | Enter: select"
	case expenseStateList:
		return "Esc: back | Enter: edit | x: delete | /: filter"
	case expenseStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m ExpensesModel) Init() tea.Cmd {
	return nil
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.rng = msg.Range
		m.loading = true
		m.state = expenseStateList

		return m, m.loadCmd()

	case loadExpensesMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.expenses = msg.expenses
		m.refreshListItems()

		if len(msg.expenses) == 0 {
			m.status = "No expenses found."
		}

		return m, nil

	case saveExpenseMsg:
		m.state = expenseStateList
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case expenseStateTimeframe:
		return m.updateTimeframe(msg)
	case expenseStateList:
		return m.updateList(msg)
	case expenseStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

func (m ExpensesModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ExpensesModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "enter":
			return m.startEditing()
		case "x":
			if selected, ok := m.list.SelectedItem().(expenseItem); ok {
				return m, m.deleteCmd(selected.e)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func categoryOptions() []huh.Option[expense.Category] {
	opts := make([]huh.Option[expense.Category], 0, len(expense.Categories))
	for _, c := range expense.Categories {
		opts = append(opts, huh.NewOption(c.Label(), c))
	}

	return opts
}

func (m ExpensesModel) startEditing() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(expenseItem)
	if !ok {
		return m, nil
	}

	m.selected = selected.e
	m.edit = &expenseEdit{desc: selected.e.Description, category: selected.e.Category}

	fields := []huh.Field{
		huh.NewInput().
			Key("description").
			Title("Description").
			Value(&m.edit.desc).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("description cannot be empty")
				}
				return nil
			}),

		huh.NewSelect[expense.Category]().
			Key("category").
			Title("Category").
			Options(categoryOptions()...).
			Value(&m.edit.category),
	}

	if len(selected.e.RawDescription) >= 3 {
		fields = append(fields, huh.NewConfirm().
			Key("learn").
			Title("Apply to future statement lines like this?").
			Affirmative("Yes").
			Negative("No").
			Value(&m.edit.learn))
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(60).WithShowHelp(false)
	m.state = expenseStateEditing

	return m, m.form.Init()
}

func (m ExpensesModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = expenseStateList
			m.form = nil

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

	return m, m.saveCmd()
}

func (m ExpensesModel) View() string {
	switch m.state {
	case expenseStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case expenseStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case expenseStateEditing:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.infoView() + "\n" + m.form.View())
	}

	return ""
}

func (m ExpensesModel) infoView() string {
	if m.selected == nil {
		return ""
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Date: %s  |  Amount: %s\nStatement: %s",
			FormatDate(m.selected.Date),
			m.selected.Amount.Pounds(),
			m.selected.RawDescription,
		))
}

func (m *ExpensesModel) refreshListItems() {
	items := make([]list.Item, len(m.expenses))
	for i, e := range m.expenses {
		items[i] = expenseItem{e: e}
	}

	m.list.SetItems(items)
}

// Messages

type loadExpensesMsg struct {
	expenses []*expense.Expense
	err      error
}

func (m ExpensesModel) loadCmd() tea.Cmd {
	filter := expense.ListFilter{Range: m.rng}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		es, err := m.expenseService.List(ctx, filter)

		return loadExpensesMsg{expenses: es, err: err}
	}
}

type saveExpenseMsg struct {
	status string
	err    error
}

func (m ExpensesModel) saveCmd() tea.Cmd {
	e := m.selected
	desc := strings.TrimSpace(m.edit.desc)
	category := m.edit.category
	learn := m.edit.learn
	matchSvc := m.matchingService
	expenseSvc := m.expenseService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := expenseSvc.Update(ctx, e.ID, expense.CreateParams{
			Date:           e.Date,
			Category:       category,
			Description:    desc,
			RawDescription: e.RawDescription,
			Amount:         e.Amount,
		})
		if err != nil {
			return saveExpenseMsg{err: err}
		}

		if learn {
			if _, err := matchSvc.Learn(ctx, matching.LearnParams{
				RawPattern:  e.RawDescription,
				Description: desc,
				Category:    category,
			}); err != nil {
				return saveExpenseMsg{err: fmt.Errorf("saved, but learning failed: %w", err)}
			}

			return saveExpenseMsg{status: "Saved and learned."}
		}

		return saveExpenseMsg{status: "Saved."}
	}
}

func (m ExpensesModel) deleteCmd(e *expense.Expense) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.expenseService.Delete(ctx, e.ID); err != nil {
			return saveExpenseMsg{err: err}
		}

		return saveExpenseMsg{status: "Deleted."}
	}
}

// expenseItemDelegate renders items in the list.
type expenseItemDelegate struct{}

func (d expenseItemDelegate) Height() int                             { return 2 }
func (d expenseItemDelegate) Spacing() int                            { return 0 }
func (d expenseItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d expenseItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(expenseItem)
	if !ok {
		return
	}

	title := i.Title()
	desc := i.Description()

	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", faintStyle.Render(desc))
}

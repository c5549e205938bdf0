package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/matching"
)

// ReviewDoneMsg carries the drafts the user kept, ready for ImportBatch.
type ReviewDoneMsg struct {
	Params []expense.CreateParams
}

// ReviewModel steps through imported drafts one at a time. Each can be renamed,
// recategorised, dropped, or learned for future imports.
type ReviewModel struct {
	CommonModel
	matchingService *matching.Service

	queue   []importer.Draft
	current *importer.Draft
	kept    []expense.CreateParams

	descInput   textinput.Model
	categoryIdx int
	learn       bool

	status     string
	totalCount int
}

func NewReviewModel(matchSvc *matching.Service, drafts []importer.Draft) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Description"
	ti.Width = 50

	m := ReviewModel{
		matchingService: matchSvc,
		queue:           drafts,
		descInput:       ti,
		totalCount:      len(drafts),
	}
	m.next()

	return m
}

func (m ReviewModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, Back

		case tea.KeyEnter:
			if m.current == nil {
				return m, m.done()
			}

			desc := strings.TrimSpace(m.descInput.Value())
			if desc == "" {
				m.status = errorStyle.Render("Description cannot be empty.")
				return m, nil
			}

			return m, m.acceptCmd(desc, expense.Categories[m.categoryIdx], m.learn)

		case tea.KeyTab, tea.KeyRight:
			m.categoryIdx = (m.categoryIdx + 1) % len(expense.Categories)
			return m, nil

		case tea.KeyShiftTab, tea.KeyLeft:
			m.categoryIdx = (m.categoryIdx + len(expense.Categories) - 1) % len(expense.Categories)
			return m, nil

		case tea.KeyCtrlL:
			m.learn = !m.learn
			return m, nil

		case tea.KeyCtrlD:
			if m.current != nil {
				m.next()
				m.status = "Dropped. " + m.status

				return m, nil
			}
		}

	case reviewAcceptMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Learning failed: %v", msg.err))
		}

		m.kept = append(m.kept, msg.params)
		m.next()

		if m.current == nil {
			return m, m.done()
		}

		return m, textinput.Blink
	}

	if m.current != nil {
		m.descInput, cmd = m.descInput.Update(msg)
	}

	return m, cmd
}

func (m ReviewModel) done() tea.Cmd {
	kept := m.kept

	return func() tea.Msg { return ReviewDoneMsg{Params: kept} }
}

func (m ReviewModel) View() string {
	if m.current == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Reviewed %d lines, keeping %d.\n\n(Enter to import, Esc to cancel)", m.totalCount, len(m.kept)),
		)
	}

	matched := ""
	if m.current.Matched {
		matched = successStyle.Render(" (matched a learned rule)")
	}

	learn := "[ ]"
	if m.learn {
		learn = "[x]"
	}

	info := fmt.Sprintf(
		"Date:      %s\nAmount:    %s\nStatement: %s%s\nCategory:  %s\n",
		FormatDate(m.current.Date),
		m.current.Amount.Pounds(),
		m.current.RawDescription,
		matched,
		activeStyle(expense.Categories[m.categoryIdx].Label()),
	)

	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"%s\n\n%s\nDescription:\n%s\n\n%s Learn this rule (ctrl+l)\n\n(Enter: keep & next | Tab/←/→: category | ctrl+d: drop | Esc: cancel)",
		m.status, info, m.descInput.View(), learn,
	))
}

func (m *ReviewModel) next() {
	m.learn = false

	if len(m.queue) == 0 {
		m.current = nil
		m.descInput.Blur()

		return
	}

	d := m.queue[0]
	m.queue = m.queue[1:]
	m.current = &d

	m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)

	m.categoryIdx = max(slices.Index(expense.Categories, d.Category), 0)
	m.descInput.SetValue(d.Description)
	m.descInput.Focus()
}

type reviewAcceptMsg struct {
	params expense.CreateParams
	err    error
}

func (m ReviewModel) acceptCmd(desc string, category expense.Category, learn bool) tea.Cmd {
	params := m.current.CreateParams
	params.Description = desc
	params.Category = category

	return func() tea.Msg {
		if !learn || len(params.RawDescription) < 3 {
			return reviewAcceptMsg{params: params}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.matchingService.Learn(ctx, matching.LearnParams{
			RawPattern:  params.RawDescription,
			Description: desc,
			Category:    category,
		})

		return reviewAcceptMsg{params: params, err: err}
	}
}

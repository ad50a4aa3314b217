// Package tui is the terminal front end: it renders dashboard.State and
// turns key presses into controller calls.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"finboard/internal/chart"
	"finboard/internal/dashboard"
	applog "finboard/internal/log"
	"finboard/internal/services"
)

// StateChangedMsg tells the program the dashboard state changed. Send it
// from dashboard.State.OnChange.
type StateChangedMsg struct{}

type mutationDoneMsg struct{ err error }

type pendingDelete struct {
	section dashboard.Section
	id      int64
	label   string
}

type Model struct {
	ctx      context.Context
	ctrl     *dashboard.Controller
	sink     *TerminalSink
	currency string
	now      func() time.Time
	logger   *applog.Logger

	view     dashboard.View
	viewport viewport.Model
	width    int
	height   int
	cursor   map[dashboard.Section]int

	form    *form
	confirm *pendingDelete
}

type Option func(*Model)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func New(ctx context.Context, ctrl *dashboard.Controller, sink *TerminalSink, currency string, logger *applog.Logger, opts ...Option) Model {
	if logger == nil {
		logger = applog.Discard()
	}
	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		sink:     sink,
		currency: currency,
		now:      time.Now,
		logger:   logger.WithComponent(applog.ComponentTUI),
		viewport: viewport.New(80, 20),
		cursor:   make(map[dashboard.Section]int),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.view = ctrl.State().View()
	m.refreshContent()
	return m
}

// Init loads the initial section.
func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(5, msg.Height-5)
		m.refreshContent()
		return m, nil

	case StateChangedMsg:
		m.view = m.ctrl.State().View()
		m.clampCursor()
		m.refreshContent()
		return m, nil

	case mutationDoneMsg:
		if msg.err == nil && m.form != nil {
			m.form = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.String() == "ctrl+c" {
		return m, m.quit()
	}

	if m.view.Notice != nil {
		switch key.String() {
		case "enter", "esc", " ":
			state := m.ctrl.State()
			// Off the update loop: DismissNotice triggers OnChange.
			return m, func() tea.Msg {
				state.DismissNotice()
				return nil
			}
		}
		return m, nil
	}

	if m.confirm != nil {
		return m.handleConfirm(key)
	}

	if m.form != nil {
		return m.handleForm(key)
	}

	switch key.String() {
	case "q":
		return m, m.quit()
	case "r":
		return m, m.refresh()
	case "tab", "right", "l":
		return m, m.navigate(1)
	case "shift+tab", "left", "h":
		return m, m.navigate(-1)
	case "1", "2", "3", "4", "5", "6":
		idx := int(key.String()[0] - '1')
		return m, m.activate(dashboard.Sections()[idx].ID())
	case "j", "down":
		if m.rowCount() > 0 {
			m.cursor[m.view.Active]++
			m.clampCursor()
			m.refreshContent()
			return m, nil
		}
	case "k", "up":
		if m.rowCount() > 0 {
			m.cursor[m.view.Active]--
			m.clampCursor()
			m.refreshContent()
			return m, nil
		}
	case "a":
		if kind, ok := addFormFor(m.view.Active); ok {
			m.form = newForm(kind, m.now())
			return m, nil
		}
	case "c", "enter":
		if m.view.Active == dashboard.LoanCalculator {
			m.form = newForm(loanForm, m.now())
			return m, nil
		}
	case "d", "delete":
		if p, ok := m.selectedForDelete(); ok {
			m.confirm = &p
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m Model) handleConfirm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "Y":
		p := *m.confirm
		m.confirm = nil
		return m, m.delete(p)
	case "n", "N", "esc":
		m.confirm = nil
	}
	return m, nil
}

func (m Model) handleForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.form = nil
		return m, nil
	case "enter":
		cmd, err := m.submit(m.form)
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.form.err = ""
		return m, cmd
	}
	return m, m.form.Update(key)
}

// submit parses the form and returns the command that sends it.
func (m Model) submit(f *form) (tea.Cmd, error) {
	ctx, ctrl := m.ctx, m.ctrl
	switch f.kind {
	case expenseForm:
		d, err := expenseDraft(f.values())
		if err != nil {
			return nil, err
		}
		return mutation(func() error { return ctrl.AddExpense(ctx, d) }), nil
	case assetForm:
		d, err := assetDraft(f.values())
		if err != nil {
			return nil, err
		}
		return mutation(func() error { return ctrl.AddAsset(ctx, d) }), nil
	case liabilityForm:
		d, err := liabilityDraft(f.values())
		if err != nil {
			return nil, err
		}
		return mutation(func() error { return ctrl.AddLiability(ctx, d) }), nil
	case loanForm:
		req, err := loanRequest(f.values())
		if err != nil {
			return nil, err
		}
		return mutation(func() error { return ctrl.CalculateLoan(ctx, req) }), nil
	}
	return nil, fmt.Errorf("unknown form %d", f.kind)
}

func mutation(run func() error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{err: run()}
	}
}

// delete runs after the user answered yes in the confirm modal.
func (m Model) delete(p pendingDelete) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	confirmed := services.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	switch p.section {
	case dashboard.Expenses:
		return mutation(func() error { return ctrl.DeleteExpense(ctx, p.id, confirmed) })
	case dashboard.Assets:
		return mutation(func() error { return ctrl.DeleteAsset(ctx, p.id, confirmed) })
	case dashboard.Liabilities:
		return mutation(func() error { return ctrl.DeleteLiability(ctx, p.id, confirmed) })
	}
	return nil
}

func (m Model) activate(id string) tea.Cmd {
	ctx, ctrl, logger := m.ctx, m.ctrl, m.logger
	return func() tea.Msg {
		if err := ctrl.Activate(ctx, id); err != nil {
			logger.Error("Navigation failed", applog.FieldSection, id, applog.FieldError, err)
		}
		return nil
	}
}

func (m Model) navigate(delta int) tea.Cmd {
	all := dashboard.Sections()
	next := (int(m.view.Active) + delta + len(all)) % len(all)
	return m.activate(all[next].ID())
}

func (m Model) refresh() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ctrl.Refresh(ctx)
		return nil
	}
}

func (m Model) quit() tea.Cmd {
	if b := m.ctrl.State().Charts(); b != nil {
		b.ReleaseAll()
	}
	return tea.Quit
}

func addFormFor(sec dashboard.Section) (formKind, bool) {
	switch sec {
	case dashboard.Expenses:
		return expenseForm, true
	case dashboard.Assets:
		return assetForm, true
	case dashboard.Liabilities:
		return liabilityForm, true
	case dashboard.Dashboard, dashboard.LoanCalculator, dashboard.Reports:
	}
	return 0, false
}

func (m Model) rowCount() int {
	switch m.view.Active {
	case dashboard.Expenses:
		return len(m.view.Expenses.Rows)
	case dashboard.Assets:
		return len(m.view.Assets.Rows)
	case dashboard.Liabilities:
		return len(m.view.Liabilities.Rows)
	case dashboard.Dashboard, dashboard.LoanCalculator, dashboard.Reports:
	}
	return 0
}

func (m Model) clampCursor() {
	n := m.rowCount()
	c := m.cursor[m.view.Active]
	m.cursor[m.view.Active] = max(0, min(c, n-1))
}

func (m Model) selectedForDelete() (pendingDelete, bool) {
	i := m.cursor[m.view.Active]
	switch m.view.Active {
	case dashboard.Expenses:
		if i < len(m.view.Expenses.Rows) {
			e := m.view.Expenses.Rows[i]
			return pendingDelete{section: dashboard.Expenses, id: e.ID, label: e.Description}, true
		}
	case dashboard.Assets:
		if i < len(m.view.Assets.Rows) {
			a := m.view.Assets.Rows[i]
			return pendingDelete{section: dashboard.Assets, id: a.ID, label: a.Name}, true
		}
	case dashboard.Liabilities:
		if i < len(m.view.Liabilities.Rows) {
			l := m.view.Liabilities.Rows[i]
			return pendingDelete{section: dashboard.Liabilities, id: l.ID, label: l.Name}, true
		}
	case dashboard.Dashboard, dashboard.LoanCalculator, dashboard.Reports:
	}
	return pendingDelete{}, false
}

func (m *Model) refreshContent() {
	m.viewport.SetContent(m.panel())
}

// chartWidth is the column budget handed to the sink.
func (m Model) chartWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width - 4
}

func (m Model) renderChart(slot chart.Slot) string {
	return m.sink.Render(slot, m.chartWidth())
}

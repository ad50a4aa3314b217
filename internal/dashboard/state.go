package dashboard

import (
	"sync"
	"time"

	"finboard/internal/chart"
	"finboard/internal/core"
	"finboard/internal/health"
)

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notification is a message the user has to dismiss.
type Notification struct {
	Kind NoticeKind
	Text string
}

// Table is a loaded record list.
type Table[R any] struct {
	Rows      []R
	Loaded    bool
	UpdatedAt time.Time
}

// DashboardView is what the dashboard section shows.
type DashboardView struct {
	Anchor       core.Period
	NetWorth     core.Series[core.Money]
	Current      core.NetWorthSnapshot
	ExpenseTotal core.Money
	Categories   []core.CategoryAmount
	Health       *health.Summary
	Loaded       bool
	UpdatedAt    time.Time
}

type ReportsView struct {
	Yearly  *core.YearlyReport
	Monthly *core.MonthlyReport
}

type LoanView struct {
	Request core.LoanRequest
	Quote   *core.LoanQuote
}

// View is a copy of the render data, safe to read without the state lock.
type View struct {
	Active      Section
	Title       string
	Panels      []Section
	Nav         []Section
	Dashboard   DashboardView
	Expenses    Table[core.Expense]
	Assets      Table[core.Asset]
	Liabilities Table[core.Liability]
	Reports     ReportsView
	Loan        LoanView
	Notice      *Notification
}

// State is the single owner of mutable UI state: active section, panel and
// nav flags, title, per-section load generations and the chart handles.
// All methods are safe for concurrent use.
type State struct {
	mu sync.RWMutex

	active Section
	panels [sectionCount]bool
	nav    [sectionCount]bool
	title  string
	gens   [sectionCount]uint64

	dashboard   DashboardView
	expenses    Table[core.Expense]
	assets      Table[core.Asset]
	liabilities Table[core.Liability]
	reports     ReportsView
	loan        LoanView
	notice      *Notification

	charts   *chart.Binding
	onChange func()
}

// NewState returns a state with the dashboard active. charts may be nil
// when nothing draws.
func NewState(charts *chart.Binding) *State {
	s := &State{charts: charts}
	s.switchLocked(Dashboard)
	return s
}

// OnChange registers fn to run after every change. fn runs without the
// state lock held.
func (s *State) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *State) changed() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Charts returns the chart binding, or nil.
func (s *State) Charts() *chart.Binding {
	return s.charts
}

func (s *State) Active() Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *State) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// VisiblePanels lists the sections whose panel is shown.
func (s *State) VisiblePanels() []Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return flagged(s.panels)
}

// HighlightedNav lists the highlighted navigation entries.
func (s *State) HighlightedNav() []Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return flagged(s.nav)
}

func flagged(flags [sectionCount]bool) []Section {
	var out []Section
	for i, on := range flags {
		if on {
			out = append(out, Section(i))
		}
	}
	return out
}

// Generation returns the latest load generation of sec.
func (s *State) Generation(sec Section) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gens[sec]
}

// activate switches the visible section and starts a new load generation
// for it, in one critical section.
func (s *State) activate(sec Section) uint64 {
	s.mu.Lock()
	s.switchLocked(sec)
	s.gens[sec]++
	gen := s.gens[sec]
	s.mu.Unlock()
	s.changed()
	return gen
}

func (s *State) switchLocked(sec Section) {
	s.panels[s.active] = false
	s.nav[s.active] = false
	s.active = sec
	s.panels[sec] = true
	s.nav[sec] = true
	s.title = sec.Title()
}

// begin starts a new load generation for sec without switching to it.
func (s *State) begin(sec Section) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[sec]++
	return s.gens[sec]
}

// commit runs apply only if gen is still the latest generation of sec. It
// reports whether apply ran.
func (s *State) commit(sec Section, gen uint64, apply func()) bool {
	s.mu.Lock()
	if s.gens[sec] != gen {
		s.mu.Unlock()
		return false
	}
	apply()
	s.mu.Unlock()
	s.changed()
	return true
}

func (s *State) notify(kind NoticeKind, text string) {
	s.mu.Lock()
	s.notice = &Notification{Kind: kind, Text: text}
	s.mu.Unlock()
	s.changed()
}

// Notice returns the pending notification, if any.
func (s *State) Notice() *Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.notice == nil {
		return nil
	}
	n := *s.notice
	return &n
}

func (s *State) DismissNotice() {
	s.mu.Lock()
	s.notice = nil
	s.mu.Unlock()
	s.changed()
}

// View copies the current render data.
func (s *State) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := View{
		Active:      s.active,
		Title:       s.title,
		Panels:      flagged(s.panels),
		Nav:         flagged(s.nav),
		Dashboard:   s.dashboard,
		Expenses:    s.expenses,
		Assets:      s.assets,
		Liabilities: s.liabilities,
		Reports:     s.reports,
		Loan:        s.loan,
	}
	if s.notice != nil {
		n := *s.notice
		v.Notice = &n
	}
	return v
}

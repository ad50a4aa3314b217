package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"finboard/internal/api"
	"finboard/internal/chart"
	"finboard/internal/core"
	"finboard/internal/health"
)

type countingLoader struct {
	mu    sync.Mutex
	calls map[Section]int
}

func (l *countingLoader) Load(ctx context.Context, sec Section, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.calls == nil {
		l.calls = map[Section]int{}
	}
	l.calls[sec]++
}

func TestParseSection(t *testing.T) {
	for _, sec := range Sections() {
		got, err := ParseSection(sec.ID())
		if err != nil || got != sec {
			t.Fatalf("ParseSection(%q) = %v, %v", sec.ID(), got, err)
		}
		if sec.Title() == "" {
			t.Fatalf("section %v has no title", sec)
		}
	}
	_, err := ParseSection("settings")
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) || cerr.ID != "settings" {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestNewState_StartsOnDashboard(t *testing.T) {
	s := NewState(nil)
	if s.Active() != Dashboard || s.Title() != "Dashboard" {
		t.Fatalf("unexpected initial state: %v %q", s.Active(), s.Title())
	}
	if p := s.VisiblePanels(); len(p) != 1 || p[0] != Dashboard {
		t.Fatalf("unexpected panels %v", p)
	}
}

func TestActivate_FromEverySection(t *testing.T) {
	for _, prior := range Sections() {
		t.Run(prior.ID(), func(t *testing.T) {
			state := NewState(nil)
			loader := &countingLoader{}
			r := NewRouter(state, loader, nil)
			r.ActivateSection(context.Background(), prior)
			loader.calls = nil

			if err := r.Activate(context.Background(), "assets"); err != nil {
				t.Fatalf("activate: %v", err)
			}
			if p := state.VisiblePanels(); len(p) != 1 || p[0] != Assets {
				t.Errorf("visible panels = %v, want [assets]", p)
			}
			if n := state.HighlightedNav(); len(n) != 1 || n[0] != Assets {
				t.Errorf("highlighted nav = %v, want [assets]", n)
			}
			if state.Title() != "Assets" {
				t.Errorf("title = %q", state.Title())
			}
			if loader.calls[Assets] != 1 || len(loader.calls) != 1 {
				t.Errorf("loader calls = %v, want assets once", loader.calls)
			}
		})
	}
}

func TestActivate_UnknownSectionLeavesState(t *testing.T) {
	state := NewState(nil)
	loader := &countingLoader{}
	r := NewRouter(state, loader, nil)
	r.ActivateSection(context.Background(), Liabilities)
	gen := state.Generation(Liabilities)

	err := r.Activate(context.Background(), "unknown")
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if state.Active() != Liabilities || state.Title() != "Liabilities" || state.Generation(Liabilities) != gen {
		t.Fatalf("state changed by a failed transition")
	}
	if p := state.VisiblePanels(); len(p) != 1 || p[0] != Liabilities {
		t.Fatalf("unexpected panels %v", p)
	}
}

func TestActivate_LoanCalculatorHasNoLoader(t *testing.T) {
	loader := &countingLoader{}
	r := NewRouter(NewState(nil), loader, nil)
	if err := r.Activate(context.Background(), "loan-calculator"); err != nil {
		t.Fatal(err)
	}
	if len(loader.calls) != 0 {
		t.Fatalf("expected no loads, got %v", loader.calls)
	}
}

func TestDashboard_PartialFailureStillDraws(t *testing.T) {
	f := newFixture()
	periods := core.Window(6, june)
	f.summary.failing[periods[2]] = errRefused

	if err := f.ctrl.Activate(context.Background(), "dashboard"); err != nil {
		t.Fatal(err)
	}

	v := f.ctrl.State().View()
	series := v.Dashboard.NetWorth
	if len(series) != 6 {
		t.Fatalf("expected 6 points, got %d", len(series))
	}
	for i, pt := range series {
		if pt.Period != periods[i] {
			t.Fatalf("point %d has period %s, want %s", i, pt.Period, periods[i])
		}
	}
	if !series[2].Filled || !series[2].Value.IsZero() {
		t.Fatalf("point 3 should be the zero fallback, got %+v", series[2])
	}
	if series[5].Value.Cents() != 60000 {
		t.Fatalf("unexpected current point %s", series[5].Value)
	}

	h, ok := f.ctrl.State().Charts().Live(chart.NetWorthSlot)
	if !ok || len(h.Spec.Labels) != 6 {
		t.Fatalf("net worth chart not drawn: %+v", h)
	}
	if h.Spec.Datasets[0].Values[2] != 0 {
		t.Fatalf("chart should plot zero for the failed month")
	}
	if v.Dashboard.Current.NetWorth.Cents() != 60000 || v.Dashboard.Current.Period != periods[5] {
		t.Fatalf("unexpected current tile %+v", v.Dashboard.Current)
	}
	if v.Dashboard.Health == nil || v.Dashboard.Health.Label != health.Good {
		t.Fatalf("expected health summary, got %+v", v.Dashboard.Health)
	}
}

func TestDashboard_FailedRegionKeepsPreviousValue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.ctrl.Refresh(ctx)
	if got := f.ctrl.State().View().Dashboard.ExpenseTotal.Cents(); got != 4200 {
		t.Fatalf("expected 42.00, got %d", got)
	}

	f.summary.totalErr = &api.StatusError{Code: 500}
	f.ctrl.Refresh(ctx)
	if got := f.ctrl.State().View().Dashboard.ExpenseTotal.Cents(); got != 4200 {
		t.Fatalf("failed load should keep previous total, got %d", got)
	}
}

func TestLoad_StaleGenerationDiscarded(t *testing.T) {
	f := newFixture()
	f.health.scores = []int{90, 20}
	state := f.ctrl.State()
	ctx := context.Background()

	old := state.activate(Dashboard)
	latest := state.activate(Dashboard)

	f.ctrl.Load(ctx, Dashboard, latest) // score 90
	f.ctrl.Load(ctx, Dashboard, old)    // score 20, stale

	if got := state.View().Dashboard.Health; got == nil || got.Score != 90 {
		t.Fatalf("stale load overwrote newer data: %+v", got)
	}
}

func TestActivate_OverlappingLoadsKeepNewest(t *testing.T) {
	f := newFixture()
	f.health.scores = []int{10, 95}
	f.health.gate = make(chan struct{})
	f.health.entered = make(chan struct{})
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.ctrl.Activate(ctx, "dashboard")
	}()
	<-f.health.entered

	if err := f.ctrl.Activate(ctx, "dashboard"); err != nil {
		t.Fatal(err)
	}
	close(f.health.gate)
	<-done

	got := f.ctrl.State().View().Dashboard.Health
	if got == nil || got.Score != 95 {
		t.Fatalf("expected the second load to win, got %+v", got)
	}
}

func TestAddExpense_RefreshesListAndDashboard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_ = f.ctrl.Activate(ctx, "expenses")
	lists := f.expenses.listCount()
	healthCalls := f.health.calls

	err := f.ctrl.AddExpense(ctx, core.ExpenseDraft{Date: core.NewDate(2024, 6, 3), Category: "Food", Description: "Dinner", Amount: core.MoneyFromCents(3100)})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if f.expenses.listCount() != lists+1 {
		t.Fatalf("expected expenses re-listed once")
	}
	if f.health.calls != healthCalls+1 {
		t.Fatalf("expected dashboard reloaded")
	}
	v := f.ctrl.State().View()
	if len(v.Expenses.Rows) != 1 || v.Expenses.Rows[0].Description != "Dinner" {
		t.Fatalf("expected new row, got %+v", v.Expenses.Rows)
	}
	if v.Active != Expenses {
		t.Fatalf("mutation must not change the active section")
	}
	if v.Notice == nil || v.Notice.Kind != NoticeSuccess {
		t.Fatalf("expected success notice, got %+v", v.Notice)
	}
}

func TestAddAsset_FailureNotifiesWithoutRefresh(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.assets.createErr = &api.ValidationError{Message: "Missing required fields"}

	err := f.ctrl.AddAsset(ctx, core.AssetDraft{Name: "Car", Category: "Vehicle", Value: core.MoneyFromCents(100), Month: core.PeriodOf(june)})
	if err == nil {
		t.Fatal("expected error")
	}
	if f.assets.listCount() != 0 {
		t.Fatalf("failed create must not refresh")
	}
	n := f.ctrl.State().Notice()
	if n == nil || n.Kind != NoticeError {
		t.Fatalf("expected blocking error notice, got %+v", n)
	}
	f.ctrl.State().DismissNotice()
	if f.ctrl.State().Notice() != nil {
		t.Fatalf("notice not dismissed")
	}
}

func TestDeleteLiability_Confirmation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if err := f.ctrl.DeleteLiability(ctx, 4, no()); err != nil {
		t.Fatalf("declined delete should not be an error: %v", err)
	}
	if len(f.deleter.ids) != 0 || f.liabilities.listCount() != 0 {
		t.Fatalf("declined delete reached the service")
	}

	if err := f.ctrl.DeleteLiability(ctx, 4, yes()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.deleter.ids) != 1 || f.liabilities.listCount() != 1 {
		t.Fatalf("expected one delete and one re-list, got ids=%v lists=%d", f.deleter.ids, f.liabilities.listCount())
	}
}

func TestListFailureKeepsRows(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.expenses.rows = []core.Expense{{ID: 1, Description: "Rent"}}
	_ = f.ctrl.Activate(ctx, "expenses")

	f.expenses.listErr = &api.ParseError{Op: "GET /api/expenses", Err: errors.New("unexpected EOF")}
	f.ctrl.Refresh(ctx)

	rows := f.ctrl.State().View().Expenses.Rows
	if len(rows) != 1 || rows[0].Description != "Rent" {
		t.Fatalf("expected previous rows kept, got %+v", rows)
	}
}

func TestReports_LoadsAndDraws(t *testing.T) {
	f := newFixture()
	if err := f.ctrl.Activate(context.Background(), "reports"); err != nil {
		t.Fatal(err)
	}
	v := f.ctrl.State().View()
	if v.Reports.Yearly == nil || v.Reports.Monthly == nil {
		t.Fatalf("expected both reports")
	}
	h, ok := f.ctrl.State().Charts().Live(chart.YearlySlot)
	if !ok || len(h.Spec.Datasets) != 2 || len(h.Spec.Labels) != 12 {
		t.Fatalf("unexpected yearly chart %+v", h)
	}
}

func TestCalculateLoan(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := core.LoanForYears(core.MoneyFromCents(2000000), decimal.RequireFromString("4.5"), 5)

	if err := f.ctrl.CalculateLoan(ctx, req); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if f.loans.reqs[0].Months != 60 {
		t.Fatalf("expected 60 months, got %d", f.loans.reqs[0].Months)
	}
	v := f.ctrl.State().View()
	if v.Loan.Quote == nil || v.Loan.Quote.MonthlyPayment.Cents() != 37286 {
		t.Fatalf("unexpected quote %+v", v.Loan.Quote)
	}

	f.loans.err = &api.ValidationError{Field: "months", Message: "must be positive"}
	if err := f.ctrl.CalculateLoan(ctx, req); err == nil {
		t.Fatal("expected error")
	}
	if n := f.ctrl.State().Notice(); n == nil || n.Kind != NoticeError {
		t.Fatalf("expected error notice")
	}
}

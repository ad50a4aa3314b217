package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"finboard/internal/api"
	"finboard/internal/chart"
	"finboard/internal/core"
	"finboard/internal/services"
)

var june = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeSummary struct {
	mu       sync.Mutex
	failing  map[core.Period]error
	calls    int
	totalErr error
	cats     []core.CategoryAmount
}

func (f *fakeSummary) NetWorth(ctx context.Context, p core.Period) (core.NetWorthSnapshot, error) {
	f.mu.Lock()
	f.calls++
	err := f.failing[p]
	f.mu.Unlock()
	if err != nil {
		return core.NetWorthSnapshot{}, err
	}
	nw := core.MoneyFromCents(int64(p.Month) * 10000)
	return core.NetWorthSnapshot{Period: p, TotalAssets: nw, TotalLiabilities: core.ZeroMoney, NetWorth: nw}, nil
}

func (f *fakeSummary) ExpenseTotal(ctx context.Context, p core.Period) (core.Money, error) {
	if f.totalErr != nil {
		return core.Money{}, f.totalErr
	}
	return core.MoneyFromCents(4200), nil
}

func (f *fakeSummary) ExpensesByCategory(ctx context.Context, p core.Period) ([]core.CategoryAmount, error) {
	return f.cats, nil
}

type fakeHealth struct {
	mu      sync.Mutex
	calls   int
	scores  []int
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeHealth) FinancialHealth(ctx context.Context) (core.HealthReport, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if n == 1 && f.gate != nil {
		close(f.entered)
		<-f.gate
	}
	score := 75
	if n <= len(f.scores) {
		score = f.scores[n-1]
	}
	return core.HealthReport{Score: score}, nil
}

type fakeReports struct{ err error }

func (f *fakeReports) YearlyReport(ctx context.Context, year int) (core.YearlyReport, error) {
	if f.err != nil {
		return core.YearlyReport{}, f.err
	}
	r := core.YearlyReport{Year: core.FlexInt(year)}
	for m := time.January; m <= time.December; m++ {
		r.Months = append(r.Months, core.MonthFigures{Period: core.Period{Year: year, Month: m}, MonthName: m.String(), NetWorth: core.MoneyFromCents(int64(m) * 100), Expenses: core.ZeroMoney})
	}
	return r, nil
}

func (f *fakeReports) MonthlyReport(ctx context.Context, p core.Period) (core.MonthlyReport, error) {
	if f.err != nil {
		return core.MonthlyReport{}, f.err
	}
	return core.MonthlyReport{Period: p}, nil
}

type fakeLoans struct {
	err  error
	reqs []core.LoanRequest
}

func (f *fakeLoans) CalculateLoan(ctx context.Context, req core.LoanRequest) (core.LoanQuote, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return core.LoanQuote{}, f.err
	}
	return core.LoanQuote{MonthlyPayment: core.MoneyFromCents(37286)}, nil
}

type fakeCollection[R any, D any] struct {
	mu        sync.Mutex
	kind      core.ResourceKind
	rows      []R
	lists     int
	listErr   error
	createErr error
	build     func(id int64, d D) R
}

func (f *fakeCollection[R, D]) Kind() core.ResourceKind { return f.kind }

func (f *fakeCollection[R, D]) List(ctx context.Context) ([]R, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]R(nil), f.rows...), nil
}

func (f *fakeCollection[R, D]) Create(ctx context.Context, d D) (R, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero R
	if f.createErr != nil {
		return zero, f.createErr
	}
	r := f.build(int64(len(f.rows)+1), d)
	f.rows = append(f.rows, r)
	return r, nil
}

func (f *fakeCollection[R, D]) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

type fakeDeleter struct {
	mu  sync.Mutex
	ids []int64
	err error
}

func (f *fakeDeleter) Delete(ctx context.Context, kind core.ResourceKind, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	return f.err
}

type fakeChart struct{ destroyed bool }

func (c *fakeChart) Destroy() { c.destroyed = true }

type fakeSink struct {
	mu    sync.Mutex
	draws map[chart.Slot]int
}

func (s *fakeSink) Draw(slot chart.Slot, spec chart.Spec) (chart.Chart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draws == nil {
		s.draws = map[chart.Slot]int{}
	}
	s.draws[slot]++
	return &fakeChart{}, nil
}

type fixture struct {
	ctrl        *Controller
	summary     *fakeSummary
	health      *fakeHealth
	reports     *fakeReports
	loans       *fakeLoans
	expenses    *fakeCollection[core.Expense, core.ExpenseDraft]
	assets      *fakeCollection[core.Asset, core.AssetDraft]
	liabilities *fakeCollection[core.Liability, core.LiabilityDraft]
	deleter     *fakeDeleter
	sink        *fakeSink
}

func newFixture() *fixture {
	f := &fixture{
		summary: &fakeSummary{failing: map[core.Period]error{}},
		health:  &fakeHealth{},
		reports: &fakeReports{},
		loans:   &fakeLoans{},
		expenses: &fakeCollection[core.Expense, core.ExpenseDraft]{kind: core.ExpenseResource, build: func(id int64, d core.ExpenseDraft) core.Expense {
			return core.Expense{ID: id, Date: d.Date, Category: d.Category, Description: d.Description, Amount: d.Amount}
		}},
		assets: &fakeCollection[core.Asset, core.AssetDraft]{kind: core.AssetResource, build: func(id int64, d core.AssetDraft) core.Asset {
			return core.Asset{ID: id, Name: d.Name, Category: d.Category, Value: d.Value, Month: d.Month}
		}},
		liabilities: &fakeCollection[core.Liability, core.LiabilityDraft]{kind: core.LiabilityResource, build: func(id int64, d core.LiabilityDraft) core.Liability {
			return core.Liability{ID: id, Name: d.Name, Category: d.Category, Amount: d.Amount, Month: d.Month}
		}},
		deleter: &fakeDeleter{},
		sink:    &fakeSink{},
	}
	state := NewState(chart.NewBinding(f.sink, nil))
	f.ctrl = NewController(state, Deps{
		Summary: f.summary,
		Health:  f.health,
		Reports: f.reports,
		Loans:   f.loans,
		Gateways: &services.Gateways{
			Expenses:    services.NewGateway[core.Expense, core.ExpenseDraft](f.expenses, f.deleter, nil),
			Assets:      services.NewGateway[core.Asset, core.AssetDraft](f.assets, f.deleter, nil),
			Liabilities: services.NewGateway[core.Liability, core.LiabilityDraft](f.liabilities, f.deleter, nil),
		},
	}, Options{WindowMonths: 6, Concurrency: 3, Now: func() time.Time { return june }})
	return f
}

var errRefused = &api.TransportError{Op: "GET /api/networth/2024-03", Err: errors.New("connection refused")}

func yes() services.Confirmer {
	return services.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) { return true, nil })
}

func no() services.Confirmer {
	return services.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) { return false, nil })
}

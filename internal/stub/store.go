// Package stub is an in-memory stand-in for the finance service, serving the
// same JSON endpoints. It backs local development (cmd/finboard-stub) and the
// client tests; the dashboard itself only ever reaches it over HTTP.
package stub

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// Store keeps records in memory and answers the service's aggregate queries.
type Store struct {
	mu          sync.Mutex
	nextID      int64
	expenses    []core.Expense
	assets      []core.Asset
	liabilities []core.Liability
}

// Seed is the on-disk format accepted by NewFromFile.
type Seed struct {
	Expenses    []core.Expense   `json:"expenses"`
	Assets      []core.Asset     `json:"assets"`
	Liabilities []core.Liability `json:"liabilities"`
}

func New() *Store {
	return &Store{nextID: 1}
}

// NewFromFile seeds the store from a JSON file. A missing file yields demo
// data for the six months ending at now.
func NewFromFile(path string, now time.Time) (*Store, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewDemo(now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(b, &seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	s := New()
	s.load(seed)
	return s, nil
}

// NewDemo returns a store with a small, deterministic history.
func NewDemo(now time.Time) *Store {
	s := New()
	for i, p := range core.Window(6, now) {
		step := int64(i)
		s.load(Seed{
			Expenses: []core.Expense{
				{Date: core.NewDate(p.Year, int(p.Month), 3), Category: "Housing", Description: "Rent", Amount: core.MoneyFromCents(120000)},
				{Date: core.NewDate(p.Year, int(p.Month), 12), Category: "Food", Description: "Groceries", Amount: core.MoneyFromCents(38000 + step*1500)},
				{Date: core.NewDate(p.Year, int(p.Month), 20), Category: "Transport", Description: "Fuel", Amount: core.MoneyFromCents(9000)},
			},
			Assets: []core.Asset{
				{Name: "Checking", Category: "Cash", Value: core.MoneyFromCents(800000 + step*50000), Month: p},
				{Name: "Index fund", Category: "Investments", Value: core.MoneyFromCents(2500000 + step*120000), Month: p},
			},
			Liabilities: []core.Liability{
				{Name: "Car loan", Category: "Loan", Amount: core.MoneyFromCents(900000 - step*30000), Month: p},
			},
		})
	}
	return s
}

func (s *Store) load(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range seed.Expenses {
		e.ID = s.takeID()
		s.expenses = append(s.expenses, e)
	}
	for _, a := range seed.Assets {
		a.ID = s.takeID()
		s.assets = append(s.assets, a)
	}
	for _, l := range seed.Liabilities {
		l.ID = s.takeID()
		s.liabilities = append(s.liabilities, l)
	}
}

// takeID must be called with mu held.
func (s *Store) takeID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) AddExpense(d core.ExpenseDraft) (core.Expense, error) {
	if err := d.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := core.Expense{ID: s.takeID(), Date: d.Date, Category: d.Category, Description: d.Description, Amount: d.Amount}
	s.expenses = append(s.expenses, e)
	return e, nil
}

func (s *Store) AddAsset(d core.AssetDraft) (core.Asset, error) {
	if err := d.Validate(); err != nil {
		return core.Asset{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := core.Asset{ID: s.takeID(), Name: d.Name, Category: d.Category, Value: d.Value, Month: d.Month}
	s.assets = append(s.assets, a)
	return a, nil
}

func (s *Store) AddLiability(d core.LiabilityDraft) (core.Liability, error) {
	if err := d.Validate(); err != nil {
		return core.Liability{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l := core.Liability{ID: s.takeID(), Name: d.Name, Category: d.Category, Amount: d.Amount, Month: d.Month}
	s.liabilities = append(s.liabilities, l)
	return l, nil
}

// Expenses returns all expenses, newest date first.
func (s *Store) Expenses() []core.Expense {
	s.mu.Lock()
	out := append([]core.Expense(nil), s.expenses...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out
}

// Assets returns all assets, most recently added first.
func (s *Store) Assets() []core.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Asset, 0, len(s.assets))
	for i := len(s.assets) - 1; i >= 0; i-- {
		out = append(out, s.assets[i])
	}
	return out
}

func (s *Store) Liabilities() []core.Liability {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Liability, 0, len(s.liabilities))
	for i := len(s.liabilities) - 1; i >= 0; i-- {
		out = append(out, s.liabilities[i])
	}
	return out
}

// Delete removes a record and reports whether it existed.
func (s *Store) Delete(kind core.ResourceKind, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case core.ExpenseResource:
		return removeByID(&s.expenses, id, func(e core.Expense) int64 { return e.ID })
	case core.AssetResource:
		return removeByID(&s.assets, id, func(a core.Asset) int64 { return a.ID })
	case core.LiabilityResource:
		return removeByID(&s.liabilities, id, func(l core.Liability) int64 { return l.ID })
	}
	return false
}

func removeByID[T any](items *[]T, id int64, idOf func(T) int64) bool {
	for i, it := range *items {
		if idOf(it) == id {
			*items = append((*items)[:i], (*items)[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) NetWorth(p core.Period) core.NetWorthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	assets, liabilities := s.balancesLocked(p)
	return core.NetWorthSnapshot{Period: p, TotalAssets: assets, TotalLiabilities: liabilities, NetWorth: assets.Sub(liabilities)}
}

func (s *Store) balancesLocked(p core.Period) (core.Money, core.Money) {
	assets, liabilities := core.ZeroMoney, core.ZeroMoney
	for _, a := range s.assets {
		if a.Month == p {
			assets = assets.Add(a.Value)
		}
	}
	for _, l := range s.liabilities {
		if l.Month == p {
			liabilities = liabilities.Add(l.Amount)
		}
	}
	return assets, liabilities
}

func (s *Store) ExpenseTotal(p core.Period) core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenseTotalLocked(p)
}

func (s *Store) expenseTotalLocked(p core.Period) core.Money {
	total := core.ZeroMoney
	for _, e := range s.expenses {
		if e.Date.Period() == p {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// ByCategory returns per-category totals for p, largest first.
func (s *Store) ByCategory(p core.Period) []core.CategoryAmount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byCategoryLocked(p)
}

func (s *Store) byCategoryLocked(p core.Period) []core.CategoryAmount {
	idx := map[string]int{}
	out := []core.CategoryAmount{}
	for _, e := range s.expenses {
		if e.Date.Period() != p {
			continue
		}
		i, ok := idx[e.Category]
		if !ok {
			i = len(out)
			idx[e.Category] = i
			out = append(out, core.CategoryAmount{Category: e.Category, Total: core.ZeroMoney})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total.Decimal) })
	return out
}

// Health scores the balance sheet of now's period the way the service does.
func (s *Store) Health(now time.Time) core.HealthReport {
	p := core.PeriodOf(now)
	s.mu.Lock()
	assetsM, liabilitiesM := s.balancesLocked(p)
	expensesM := s.expenseTotalLocked(p)
	s.mu.Unlock()

	assets, liabilities, expenses := assetsM.Float(), liabilitiesM.Float(), expensesM.Float()
	netWorth := assets - liabilities
	debtRatio := 100.0
	if assets > 0 {
		debtRatio = liabilities / assets * 100
	}

	score := 100
	switch {
	case debtRatio > 50:
		score -= 30
	case debtRatio > 30:
		score -= 15
	}
	switch {
	case netWorth < 0:
		score -= 25
	case netWorth < expenses*3:
		score -= 10
	}

	recs := []string{}
	if debtRatio > 40 {
		recs = append(recs, "Focus on debt reduction - your debt-to-asset ratio is high")
	}
	if netWorth < expenses*6 {
		recs = append(recs, "Build emergency fund - aim for 6 months of expenses")
	}
	if assets < expenses*12 {
		recs = append(recs, "Increase savings rate - build long-term wealth")
	}
	return core.HealthReport{Score: max(0, min(100, score)), Recommendations: recs}
}

func (s *Store) Yearly(year int) core.YearlyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	report := core.YearlyReport{Year: core.FlexInt(year)}
	total := core.ZeroMoney
	for m := time.January; m <= time.December; m++ {
		p := core.Period{Year: year, Month: m}
		assets, liabilities := s.balancesLocked(p)
		expenses := s.expenseTotalLocked(p)
		total = total.Add(expenses)
		report.Months = append(report.Months, core.MonthFigures{
			Period: p, MonthName: m.String(),
			Expenses: expenses, Assets: assets, Liabilities: liabilities,
			NetWorth: assets.Sub(liabilities),
		})
	}
	last := report.Months[len(report.Months)-1]
	report.Summary = core.YearSummary{
		TotalExpenses:      total,
		FinalAssets:        last.Assets,
		FinalLiabilities:   last.Liabilities,
		FinalNetWorth:      last.NetWorth,
		AvgMonthlyExpenses: core.Money{Decimal: total.Div(decimal.NewFromInt(12)).Round(2)},
	}
	return report
}

func (s *Store) Monthly(p core.Period) core.MonthlyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	assets, liabilities := s.balancesLocked(p)
	summary := core.MonthSummary{
		TotalExpenses:    s.expenseTotalLocked(p),
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		NetWorth:         assets.Sub(liabilities),
	}
	for _, e := range s.expenses {
		if e.Date.Period() == p {
			summary.ExpenseCount++
		}
	}
	for _, a := range s.assets {
		if a.Month == p {
			summary.AssetCount++
		}
	}
	for _, l := range s.liabilities {
		if l.Month == p {
			summary.LiabilityCount++
		}
	}
	return core.MonthlyReport{Period: p, ByCategory: s.byCategoryLocked(p), Summary: summary}
}

// Loan amortizes req with a fixed monthly rate and attaches payoff tips.
func Loan(req core.LoanRequest) core.LoanQuote {
	principal := req.Principal.Float()
	rateF, _ := req.RatePercent.Float64()
	rate := rateF / 100 / 12
	months := float64(req.Months)

	var monthly, total, interest float64
	if rate == 0 {
		monthly = principal / months
		total = principal
	} else {
		growth := math.Pow(1+rate, months)
		monthly = principal * rate * growth / (growth - 1)
		total = monthly * months
		interest = total - principal
	}

	return core.LoanQuote{
		MonthlyPayment: core.MoneyFromFloat(monthly),
		TotalPayment:   core.MoneyFromFloat(total),
		TotalInterest:  core.MoneyFromFloat(interest),
		Tips:           loanTips(principal, monthly, interest),
	}
}

func loanTips(principal, monthly, interest float64) []core.LoanTip {
	money := func(f float64) *core.Money {
		m := core.MoneyFromFloat(f)
		return &m
	}
	var tips []core.LoanTip
	if extra := monthly * 0.1; extra > 0 {
		tips = append(tips, core.LoanTip{
			Type:        "extra_payment",
			Title:       "Pay 10% Extra Monthly",
			Description: fmt.Sprintf("Adding $%.2f extra per month could save you thousands in interest", extra),
			Savings:     money(interest * 0.15),
		})
	}
	tips = append(tips, core.LoanTip{
		Type:        "biweekly",
		Title:       "Switch to Bi-Weekly Payments",
		Description: fmt.Sprintf("Pay $%.2f every 2 weeks instead of monthly", monthly/2),
		Savings:     money(interest * 0.25),
	})
	if interest > principal*0.2 {
		tips = append(tips, core.LoanTip{
			Type:             "refinance",
			Title:            "Consider Refinancing",
			Description:      "Your interest is high. Shop for better rates to reduce total cost",
			PotentialSavings: money(interest * 0.3),
		})
	}
	tips = append(tips, core.LoanTip{
		Type:        "lump_sum",
		Title:       "Annual Lump Sum Payment",
		Description: fmt.Sprintf("Make a $%.2f payment once a year to reduce principal faster", monthly*3),
		Impact:      "Could reduce loan term by 2-3 years",
	})
	return tips
}

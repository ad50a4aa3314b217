package dashboard

import (
	"context"

	"finboard/internal/chart"
	"finboard/internal/core"
	"finboard/internal/fetch"
	"finboard/internal/health"
	applog "finboard/internal/log"
	"finboard/internal/services"
)

var zeroSnapshot = core.NetWorthSnapshot{
	TotalAssets:      core.ZeroMoney,
	TotalLiabilities: core.ZeroMoney,
	NetWorth:         core.ZeroMoney,
}

// loadDashboard fetches the net worth window, the current period's tiles,
// the category split and the health report. Per-period failures become
// zero points; other failures leave their region as it was.
func (c *Controller) loadDashboard(ctx context.Context, gen uint64) {
	now := c.now()
	anchor := core.PeriodOf(now)
	periods := core.Window(c.window, now)

	results := fetch.All(ctx, periods, c.deps.Summary.NetWorth, fetch.Options{
		Concurrency: c.conc,
		Logger:      c.logger,
		Label:       "networth",
	})
	snapshots := core.ToSeries(periods, results, zeroSnapshot)
	netWorth := core.Map(snapshots, func(s core.NetWorthSnapshot) core.Money { return s.NetWorth })
	current := snapshots.Value(anchor, zeroSnapshot)
	current.Period = anchor

	total, totalErr := c.deps.Summary.ExpenseTotal(ctx, anchor)
	if totalErr != nil {
		c.logFailure(ctx, Dashboard, gen, "Expense total load failed", totalErr)
	}
	categories, catErr := c.deps.Summary.ExpensesByCategory(ctx, anchor)
	if catErr != nil {
		c.logFailure(ctx, Dashboard, gen, "Category breakdown load failed", catErr)
	}
	report, healthErr := c.deps.Health.FinancialHealth(ctx)
	if healthErr != nil {
		c.logFailure(ctx, Dashboard, gen, "Financial health load failed", healthErr)
	}

	committed := c.state.commit(Dashboard, gen, func() {
		v := &c.state.dashboard
		v.Anchor = anchor
		v.NetWorth = netWorth
		v.Current = current
		v.Loaded = true
		v.UpdatedAt = now
		if totalErr == nil {
			v.ExpenseTotal = total
		}
		if catErr == nil {
			v.Categories = categories
		}
		if healthErr == nil {
			summary := health.Summarize(report)
			v.Health = &summary
		}

		c.bind(chart.NetWorthSlot, chart.LineSpec("Net Worth", netWorth.Labels(), chart.MoneyDataset("Net Worth", netWorth)))
		if catErr == nil {
			c.bind(chart.CategorySlot, chart.DoughnutSpec("Expenses by Category", categories))
		}
	})
	if !committed {
		c.logStale(ctx, Dashboard, gen)
		return
	}
	if filled := netWorth.FilledCount(); filled > 0 {
		c.logger.InfoContext(ctx, "Net worth series has fallback points",
			applog.FieldSection, Dashboard.String(),
			applog.FieldCount, filled)
	}
}

// loadTable re-lists one resource kind. A failed list keeps the previous rows.
func loadTable[R any, D services.Draft](ctx context.Context, c *Controller, sec Section, gen uint64, g *services.Gateway[R, D], set func(Table[R])) {
	rows, err := g.List(ctx)
	if err != nil {
		c.logFailure(ctx, sec, gen, "List load failed", err)
		return
	}
	if rows == nil {
		rows = []R{}
	}
	if !c.state.commit(sec, gen, func() {
		set(Table[R]{Rows: rows, Loaded: true, UpdatedAt: c.now()})
	}) {
		c.logStale(ctx, sec, gen)
	}
}

// loadReports fetches the yearly report of the current year and the monthly
// report of the current period.
func (c *Controller) loadReports(ctx context.Context, gen uint64) {
	anchor := core.PeriodOf(c.now())

	yearly, yErr := c.deps.Reports.YearlyReport(ctx, anchor.Year)
	if yErr != nil {
		c.logFailure(ctx, Reports, gen, "Yearly report load failed", yErr)
	}
	monthly, mErr := c.deps.Reports.MonthlyReport(ctx, anchor)
	if mErr != nil {
		c.logFailure(ctx, Reports, gen, "Monthly report load failed", mErr)
	}
	if yErr != nil && mErr != nil {
		return
	}

	if !c.state.commit(Reports, gen, func() {
		if yErr == nil {
			c.state.reports.Yearly = &yearly
			c.bind(chart.YearlySlot, yearlySpec(yearly))
		}
		if mErr == nil {
			c.state.reports.Monthly = &monthly
		}
	}) {
		c.logStale(ctx, Reports, gen)
	}
}

func yearlySpec(r core.YearlyReport) chart.Spec {
	labels := make([]string, len(r.Months))
	netWorth := chart.Dataset{Label: "Net Worth", Values: make([]float64, len(r.Months))}
	expenses := chart.Dataset{Label: "Expenses", Values: make([]float64, len(r.Months))}
	for i, m := range r.Months {
		labels[i] = m.Period.String()
		if m.Period.IsZero() {
			labels[i] = m.MonthName
		}
		netWorth.Values[i] = m.NetWorth.Float()
		expenses.Values[i] = m.Expenses.Float()
	}
	return chart.LineSpec("Net Worth and Expenses", labels, netWorth, expenses)
}

// bind draws into a chart slot. Callers hold the state lock, so sinks must
// not call back into State.
func (c *Controller) bind(slot chart.Slot, spec chart.Spec) {
	b := c.state.charts
	if b == nil {
		return
	}
	if _, err := b.Bind(slot, spec); err != nil {
		c.logger.Warn("Chart not drawn",
			applog.FieldSlot, string(slot),
			applog.FieldError, err)
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"finboard/internal/chart"
	"finboard/internal/core"
	"finboard/internal/dashboard"
)

func (m Model) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		headerStyle.Render(m.view.Title),
		dateStyle.Render(m.now().Format("Monday, January 2, 2006")),
	)

	var overlay string
	switch {
	case m.view.Notice != nil:
		overlay = m.noticeView(m.view.Notice)
	case m.confirm != nil:
		overlay = modalStyle.Render(fmt.Sprintf("Are you sure you want to delete %q?\n\n%s",
			m.confirm.label, mutedStyle.Render("y yes • n no")))
	case m.form != nil:
		overlay = m.form.View()
	}

	body := m.viewport.View()
	if overlay != "" {
		body = overlay
		if m.width > 0 {
			body = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, overlay)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.navView(), body, m.helpView())
}

func (m Model) navView() string {
	highlighted := map[dashboard.Section]bool{}
	for _, s := range m.view.Nav {
		highlighted[s] = true
	}
	items := make([]string, 0, len(dashboard.Sections()))
	for i, s := range dashboard.Sections() {
		label := fmt.Sprintf("%d %s", i+1, s.Title())
		if highlighted[s] {
			items = append(items, navActiveStyle.Render(label))
		} else {
			items = append(items, navStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m Model) helpView() string {
	help := "tab/1-6 switch • r refresh • q quit"
	switch m.view.Active {
	case dashboard.Expenses, dashboard.Assets, dashboard.Liabilities:
		help = "a add • d delete • j/k select • " + help
	case dashboard.LoanCalculator:
		help = "c calculate • " + help
	case dashboard.Dashboard, dashboard.Reports:
	}
	return helpStyle.Render(help)
}

func (m Model) noticeView(n *dashboard.Notification) string {
	text := n.Text + "\n\n" + mutedStyle.Render("enter to dismiss")
	if n.Kind == dashboard.NoticeError {
		return errorModalStyle.Render(negativeStyle.Render("✗ ") + text)
	}
	return modalStyle.Render(positiveStyle.Render("✓ ") + text)
}

// panel renders the visible section.
func (m Model) panel() string {
	switch m.view.Active {
	case dashboard.Dashboard:
		return m.dashboardPanel()
	case dashboard.Expenses:
		return m.expensesPanel()
	case dashboard.Assets:
		return m.assetsPanel()
	case dashboard.Liabilities:
		return m.liabilitiesPanel()
	case dashboard.LoanCalculator:
		return m.loanPanel()
	case dashboard.Reports:
		return m.reportsPanel()
	}
	return ""
}

func (m Model) money(v core.Money) string {
	return v.Display(m.currency)
}

func tile(label, value string) string {
	return tileStyle.Render(tileLabelStyle.Render(label) + "\n" + value)
}

func (m Model) dashboardPanel() string {
	d := m.view.Dashboard
	if !d.Loaded {
		return mutedStyle.Render("Loading dashboard…")
	}

	netWorth := m.money(d.Current.NetWorth)
	if d.Current.NetWorth.IsNegative() {
		netWorth = negativeStyle.Render(netWorth)
	}
	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		tile("Net Worth", netWorth),
		tile("Total Assets", positiveStyle.Render(m.money(d.Current.TotalAssets))),
		tile("Total Liabilities", negativeStyle.Render(m.money(d.Current.TotalLiabilities))),
		tile("Monthly Expenses", warnStyle.Render(m.money(d.ExpenseTotal))),
	)

	parts := []string{tiles, m.renderChart(chart.NetWorthSlot)}
	if filled := d.NetWorth.FilledCount(); filled > 0 {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("%d month(s) could not be loaded and are shown as zero.", filled)))
	}
	if c := m.renderChart(chart.CategorySlot); c != "" {
		parts = append(parts, "", c)
	}
	parts = append(parts, "", m.healthView(d))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) healthView(d dashboard.DashboardView) string {
	var b strings.Builder
	b.WriteString(chartTitleStyle.Render("Financial Health"))
	b.WriteString("\n")
	if d.Health == nil {
		b.WriteString(mutedStyle.Render("Health report unavailable."))
		return b.String()
	}
	fmt.Fprintf(&b, "%s  %s\n", selectedStyle.Render(fmt.Sprintf("%d/100", d.Health.Score)), string(d.Health.Label))
	if d.Health.Block.Empty() {
		b.WriteString(positiveStyle.Render(d.Health.Block.Affirmation))
		return b.String()
	}
	for _, rec := range d.Health.Block.Items {
		b.WriteString("• " + rec + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) recordTable(headers []string, rows [][]string, selected int) string {
	for i := range rows {
		marker := " "
		if i == selected {
			marker = selectedStyle.Render("›")
		}
		rows[i] = append([]string{marker}, rows[i]...)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(append([]string{""}, headers...)...).
		Rows(rows...)
	return t.String()
}

func emptyTable(loaded bool, what string) string {
	if !loaded {
		return mutedStyle.Render("Loading " + what + "…")
	}
	return mutedStyle.Render("No " + what + " yet. Press a to add one.")
}

func (m Model) expensesPanel() string {
	t := m.view.Expenses
	if len(t.Rows) == 0 {
		return emptyTable(t.Loaded, "expenses")
	}
	rows := make([][]string, len(t.Rows))
	for i, e := range t.Rows {
		rows[i] = []string{e.Date.String(), titleCaser.String(e.Category), e.Description, negativeStyle.Render(m.money(e.Amount))}
	}
	return m.recordTable([]string{"Date", "Category", "Description", "Amount"}, rows, m.cursor[dashboard.Expenses])
}

func (m Model) assetsPanel() string {
	t := m.view.Assets
	if len(t.Rows) == 0 {
		return emptyTable(t.Loaded, "assets")
	}
	rows := make([][]string, len(t.Rows))
	for i, a := range t.Rows {
		rows[i] = []string{a.Name, titleCaser.String(a.Category), positiveStyle.Render(m.money(a.Value)), a.Month.String()}
	}
	return m.recordTable([]string{"Name", "Category", "Value", "Month"}, rows, m.cursor[dashboard.Assets])
}

func (m Model) liabilitiesPanel() string {
	t := m.view.Liabilities
	if len(t.Rows) == 0 {
		return emptyTable(t.Loaded, "liabilities")
	}
	rows := make([][]string, len(t.Rows))
	for i, l := range t.Rows {
		rows[i] = []string{l.Name, titleCaser.String(l.Category), negativeStyle.Render(m.money(l.Amount)), l.Month.String()}
	}
	return m.recordTable([]string{"Name", "Category", "Amount", "Month"}, rows, m.cursor[dashboard.Liabilities])
}

func (m Model) loanPanel() string {
	q := m.view.Loan.Quote
	if q == nil {
		return mutedStyle.Render("Press c to calculate a loan.")
	}
	req := m.view.Loan.Request
	parts := []string{
		mutedStyle.Render(fmt.Sprintf("%s at %s%% over %d months", m.money(req.Principal), req.RatePercent.String(), req.Months)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			tile("Monthly Payment", selectedStyle.Render(m.money(q.MonthlyPayment))),
			tile("Total Payment", negativeStyle.Render(m.money(q.TotalPayment))),
			tile("Total Interest", warnStyle.Render(m.money(q.TotalInterest))),
		),
	}
	for _, tip := range q.Tips {
		lines := []string{chartTitleStyle.Render(tip.Title), tip.Description}
		if tip.Savings != nil {
			lines = append(lines, "Potential Savings: "+m.money(*tip.Savings))
		}
		if tip.PotentialSavings != nil {
			lines = append(lines, "Potential Savings: "+m.money(*tip.PotentialSavings))
		}
		if tip.Impact != "" {
			lines = append(lines, "Impact: "+tip.Impact)
		}
		parts = append(parts, tipStyle.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) reportsPanel() string {
	r := m.view.Reports
	if r.Yearly == nil && r.Monthly == nil {
		return mutedStyle.Render("Loading reports…")
	}
	var parts []string
	if y := r.Yearly; y != nil {
		parts = append(parts,
			chartTitleStyle.Render(fmt.Sprintf("%d at a glance", int(y.Year))),
			lipgloss.JoinHorizontal(lipgloss.Top,
				tile("Total Expenses", warnStyle.Render(m.money(y.Summary.TotalExpenses))),
				tile("Avg Monthly Expenses", m.money(y.Summary.AvgMonthlyExpenses)),
				tile("Final Net Worth", m.money(y.Summary.FinalNetWorth)),
			),
			m.renderChart(chart.YearlySlot),
		)
	}
	if mr := r.Monthly; mr != nil {
		root := tree.New().Root(chartTitleStyle.Render(mr.Period.String() + " by category"))
		for _, c := range mr.ByCategory {
			root.Child(fmt.Sprintf("%s (%s)", titleCaser.String(c.Category), m.money(c.Total)))
		}
		if len(mr.ByCategory) == 0 {
			root.Child(mutedStyle.Render("no expenses"))
		}
		parts = append(parts, "", root.String(),
			mutedStyle.Render(fmt.Sprintf("%d expenses • %d assets • %d liabilities • net worth %s",
				mr.Summary.ExpenseCount, mr.Summary.AssetCount, mr.Summary.LiabilityCount, m.money(mr.Summary.NetWorth))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

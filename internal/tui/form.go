package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

type formKind int

const (
	expenseForm formKind = iota
	assetForm
	liabilityForm
	loanForm
)

// form is a small stack of text inputs submitted with enter.
type form struct {
	kind   formKind
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
	err    string
}

func newForm(kind formKind, now time.Time) *form {
	today := core.NewDate(now.Year(), int(now.Month()), now.Day()).String()
	month := core.PeriodOf(now).String()

	f := &form{kind: kind}
	var defaults []string
	switch kind {
	case expenseForm:
		f.title = "Add Expense"
		f.labels = []string{"Category", "Description", "Amount", "Date (YYYY-MM-DD)"}
		defaults = []string{"", "", "", today}
	case assetForm:
		f.title = "Add Asset"
		f.labels = []string{"Name", "Category", "Value", "Month (YYYY-MM)"}
		defaults = []string{"", "", "", month}
	case liabilityForm:
		f.title = "Add Liability"
		f.labels = []string{"Name", "Category", "Amount", "Month (YYYY-MM)"}
		defaults = []string{"", "", "", month}
	case loanForm:
		f.title = "Loan Calculator"
		f.labels = []string{"Loan amount", "Interest rate (%)", "Term (years)"}
		defaults = []string{"", "", ""}
	}

	for i, label := range f.labels {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = label
		ti.CharLimit = 200
		ti.Width = 32
		ti.SetValue(defaults[i])
		f.inputs = append(f.inputs, ti)
	}
	f.inputs[0].Focus()
	return f
}

func (f *form) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.move(1)
		case "shift+tab", "up":
			return f.move(-1)
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *form) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}

func (f *form) View() string {
	var b strings.Builder
	b.WriteString(chartTitleStyle.Render(f.title))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		label := tileLabelStyle.Render(f.labels[i])
		if i == f.focus {
			label = selectedStyle.Render(f.labels[i])
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, label, in.View()))
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n" + negativeStyle.Render(f.err))
	}
	b.WriteString("\n" + mutedStyle.Render("enter submit • tab next field • esc cancel"))
	return modalStyle.Render(b.String())
}

func expenseDraft(v []string) (core.ExpenseDraft, error) {
	amount, err := core.ParseAmount(v[2])
	if err != nil {
		return core.ExpenseDraft{}, fmt.Errorf("amount: %w", err)
	}
	date, err := core.ParseDate(v[3])
	if err != nil {
		return core.ExpenseDraft{}, err
	}
	return core.ExpenseDraft{Category: v[0], Description: v[1], Amount: amount, Date: date}, nil
}

func assetDraft(v []string) (core.AssetDraft, error) {
	value, err := core.ParseAmount(v[2])
	if err != nil {
		return core.AssetDraft{}, fmt.Errorf("value: %w", err)
	}
	month, err := core.ParsePeriod(v[3])
	if err != nil {
		return core.AssetDraft{}, err
	}
	return core.AssetDraft{Name: v[0], Category: v[1], Value: value, Month: month}, nil
}

func liabilityDraft(v []string) (core.LiabilityDraft, error) {
	amount, err := core.ParseAmount(v[2])
	if err != nil {
		return core.LiabilityDraft{}, fmt.Errorf("amount: %w", err)
	}
	month, err := core.ParsePeriod(v[3])
	if err != nil {
		return core.LiabilityDraft{}, err
	}
	return core.LiabilityDraft{Name: v[0], Category: v[1], Amount: amount, Month: month}, nil
}

var errInvalidTerm = errors.New("term must be a whole number of years")

func loanRequest(v []string) (core.LoanRequest, error) {
	principal, err := core.ParseAmount(v[0])
	if err != nil {
		return core.LoanRequest{}, fmt.Errorf("loan amount: %w", err)
	}
	rate, err := decimal.NewFromString(strings.ReplaceAll(v[1], ",", "."))
	if err != nil || rate.IsNegative() {
		return core.LoanRequest{}, errors.New("interest rate must be a non-negative number")
	}
	years, err := strconv.Atoi(v[2])
	if err != nil || years <= 0 {
		return core.LoanRequest{}, errInvalidTerm
	}
	return core.LoanForYears(principal, rate, years), nil
}

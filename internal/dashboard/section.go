// Package dashboard holds the navigation state machine, the per-section
// loaders and the state they render from.
package dashboard

import "fmt"

// Section is one top-level view. The set is closed: every switch over it
// is exhaustive.
type Section int

const (
	Dashboard Section = iota
	Expenses
	Assets
	Liabilities
	LoanCalculator
	Reports

	sectionCount
)

var sectionMeta = [sectionCount]struct {
	id    string
	title string
}{
	Dashboard:      {"dashboard", "Dashboard"},
	Expenses:       {"expenses", "Expenses"},
	Assets:         {"assets", "Assets"},
	Liabilities:    {"liabilities", "Liabilities"},
	LoanCalculator: {"loan-calculator", "Loan Calculator"},
	Reports:        {"reports", "Reports"},
}

// Sections returns every section in navigation order.
func Sections() []Section {
	out := make([]Section, sectionCount)
	for i := range out {
		out[i] = Section(i)
	}
	return out
}

func (s Section) valid() bool {
	return s >= 0 && s < sectionCount
}

// ID is the stable identifier used by navigation links.
func (s Section) ID() string {
	if !s.valid() {
		return ""
	}
	return sectionMeta[s].id
}

func (s Section) Title() string {
	if !s.valid() {
		return ""
	}
	return sectionMeta[s].title
}

func (s Section) String() string {
	if !s.valid() {
		return fmt.Sprintf("Section(%d)", int(s))
	}
	return sectionMeta[s].id
}

// HasLoader reports whether activating s loads data.
func (s Section) HasLoader() bool {
	switch s {
	case Dashboard, Expenses, Assets, Liabilities, Reports:
		return true
	case LoanCalculator:
		return false
	}
	return false
}

// ConfigurationError reports a navigation target that does not exist. It
// points at a broken link, not a runtime condition.
type ConfigurationError struct {
	ID string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown section %q", e.ID)
}

// ParseSection resolves a navigation id.
func ParseSection(id string) (Section, error) {
	for i, m := range sectionMeta {
		if m.id == id {
			return Section(i), nil
		}
	}
	return 0, &ConfigurationError{ID: id}
}

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ExpenseResource ResourceKind = iota
	AssetResource
	LiabilityResource
)

// DateLayout is the wire format of record dates.
const DateLayout = "2006-01-02"

type (
	// ResourceKind enumerates the record collections the service exposes.
	ResourceKind int

	Date struct {
		time.Time
	}

	Expense struct {
		ID          int64  `json:"id"`
		Date        Date   `json:"date"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Amount      Money  `json:"amount"`
	}

	Asset struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Value    Money  `json:"value"`
		Month    Period `json:"month"`
	}

	Liability struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
		Month    Period `json:"month"`
	}

	// ExpenseDraft is an expense that has not been created yet.
	ExpenseDraft struct {
		Date        Date
		Category    string
		Description string
		Amount      Money
	}

	AssetDraft struct {
		Name     string
		Category string
		Value    Money
		Month    Period
	}

	LiabilityDraft struct {
		Name     string
		Category string
		Amount   Money
		Month    Period
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
)

// ResourceKinds lists every kind in display order.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{ExpenseResource, AssetResource, LiabilityResource}
}

func (k ResourceKind) String() string {
	switch k {
	case ExpenseResource:
		return "expense"
	case AssetResource:
		return "asset"
	case LiabilityResource:
		return "liability"
	}
	return fmt.Sprintf("ResourceKind(%d)", int(k))
}

// Path returns the collection segment used in service URLs.
func (k ResourceKind) Path() string {
	switch k {
	case ExpenseResource:
		return "expenses"
	case AssetResource:
		return "assets"
	case LiabilityResource:
		return "liabilities"
	}
	return ""
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Period returns the calendar month the date falls in.
func (d Date) Period() Period {
	return PeriodOf(d.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD and longer timestamps starting with it.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (e ExpenseDraft) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return e.Amount.Validate()
}

func (a AssetDraft) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Category) == "" {
		return ErrEmptyCategory
	}
	if err := a.Value.Validate(); err != nil {
		return err
	}
	return a.Month.Validate()
}

func (l LiabilityDraft) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(l.Category) == "" {
		return ErrEmptyCategory
	}
	if err := l.Amount.Validate(); err != nil {
		return err
	}
	return l.Month.Validate()
}

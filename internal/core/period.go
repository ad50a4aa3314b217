package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PeriodLayout is the canonical key format of a Period.
const PeriodLayout = "2006-01"

// Period identifies one calendar month. It is the join key across resources.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a YYYY-MM key.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(PeriodLayout, strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return PeriodOf(t), nil
}

// Window returns the trailing size periods ending with anchor's period,
// oldest first. size <= 0 yields an empty window.
func Window(size int, anchor time.Time) []Period {
	if size <= 0 {
		return []Period{}
	}
	last := PeriodOf(anchor)
	out := make([]Period, size)
	for i := range out {
		out[i] = last.AddMonths(i - (size - 1))
	}
	return out
}

// AddMonths moves the period n months forward (or back when n < 0).
func (p Period) AddMonths(n int) Period {
	idx := p.Year*12 + int(p.Month) - 1 + n
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return Period{Year: year, Month: time.Month(month + 1)}
}

// Compare returns -1, 0 or +1 depending on whether p is before, equal to or after o.
func (p Period) Compare(o Period) int {
	switch {
	case p.Year < o.Year:
		return -1
	case p.Year > o.Year:
		return 1
	case p.Month < o.Month:
		return -1
	case p.Month > o.Month:
		return 1
	}
	return 0
}

func (p Period) Before(o Period) bool {
	return p.Compare(o) < 0
}

func (p Period) IsZero() bool {
	return p == Period{}
}

func (p Period) Validate() error {
	if p.Year < 1 || p.Month < time.January || p.Month > time.December {
		return ErrInvalidPeriod
	}
	return nil
}

// String returns the canonical YYYY-MM key.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Start returns midnight UTC on the first day of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Period) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*p = Period{}
		return nil
	}
	parsed, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

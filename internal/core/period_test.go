package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestWindowSixMonths(t *testing.T) {
	anchor := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	w := Window(6, anchor)
	if len(w) != 6 {
		t.Fatalf("expected 6 periods, got %d", len(w))
	}
	if got := w[len(w)-1].String(); got != "2024-06" {
		t.Fatalf("expected last period 2024-06, got %s", got)
	}
	if got := w[0].String(); got != "2024-01" {
		t.Fatalf("expected first period 2024-01, got %s", got)
	}
	seen := map[Period]bool{}
	for i, p := range w {
		if seen[p] {
			t.Fatalf("duplicate period %s", p)
		}
		seen[p] = true
		if i > 0 && !w[i-1].Before(p) {
			t.Fatalf("periods not strictly increasing at %d: %s then %s", i, w[i-1], p)
		}
	}
}

func TestWindowCrossesYearBoundary(t *testing.T) {
	w := Window(4, time.Date(2025, 2, 17, 12, 0, 0, 0, time.UTC))
	want := []string{"2024-11", "2024-12", "2025-01", "2025-02"}
	for i, p := range w {
		if p.String() != want[i] {
			t.Fatalf("index %d: expected %s, got %s", i, want[i], p)
		}
	}
}

func TestWindowNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		w := Window(size, time.Now())
		if w == nil || len(w) != 0 {
			t.Fatalf("size %d: expected empty window, got %v", size, w)
		}
	}
}

func TestPeriodAddMonths(t *testing.T) {
	cases := []struct {
		p    Period
		n    int
		want string
	}{
		{Period{2024, time.January}, -1, "2023-12"},
		{Period{2024, time.December}, 1, "2025-01"},
		{Period{2024, time.June}, -18, "2022-12"},
		{Period{2024, time.June}, 0, "2024-06"},
		{Period{2024, time.March}, 25, "2026-04"},
	}
	for _, tc := range cases {
		if got := tc.p.AddMonths(tc.n).String(); got != tc.want {
			t.Fatalf("%s %+d: expected %s, got %s", tc.p, tc.n, tc.want, got)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-06")
	if err != nil || p != (Period{2024, time.June}) {
		t.Fatalf("unexpected parse: %v %v", p, err)
	}
	for _, bad := range []string{"", "2024-13", "June 2024", "2024/06"} {
		if _, err := ParsePeriod(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestPeriodCompare(t *testing.T) {
	a := Period{2024, time.May}
	b := Period{2024, time.June}
	c := Period{2025, time.January}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatalf("unexpected month ordering")
	}
	if !b.Before(c) || c.Before(a) {
		t.Fatalf("unexpected year ordering")
	}
}

func TestPeriodJSON(t *testing.T) {
	var v struct {
		Month Period `json:"month"`
	}
	if err := json.Unmarshal([]byte(`{"month":"2023-11"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Month != (Period{2023, time.November}) {
		t.Fatalf("unexpected period %v", v.Month)
	}
	b, err := json.Marshal(v)
	if err != nil || string(b) != `{"month":"2023-11"}` {
		t.Fatalf("unexpected marshal %s (err=%v)", b, err)
	}
}

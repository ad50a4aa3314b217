package core

import (
	"errors"
	"testing"
	"time"
)

func TestToSeriesReplacesFailuresWithZero(t *testing.T) {
	periods := Window(5, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	boom := errors.New("boom")
	results := []Result[int]{Ok(1), Fail[int](boom), Ok(3), Fail[int](boom), Ok(5)}

	s := ToSeries(periods, results, -1)
	if len(s) != len(periods) {
		t.Fatalf("expected %d entries, got %d", len(periods), len(s))
	}
	want := []int{1, -1, 3, -1, 5}
	for i, pt := range s {
		if pt.Period != periods[i] {
			t.Fatalf("index %d: period %s, want %s", i, pt.Period, periods[i])
		}
		if pt.Value != want[i] {
			t.Fatalf("index %d: value %d, want %d", i, pt.Value, want[i])
		}
		if pt.Filled != (want[i] == -1) {
			t.Fatalf("index %d: unexpected fill marker %v", i, pt.Filled)
		}
	}
	if s.FilledCount() != 2 {
		t.Fatalf("expected 2 filled entries, got %d", s.FilledCount())
	}
}

func TestToSeriesAllMixes(t *testing.T) {
	periods := Window(4, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	for mask := 0; mask < 1<<len(periods); mask++ {
		results := make([]Result[string], len(periods))
		for i := range results {
			if mask&(1<<i) != 0 {
				results[i] = Fail[string](errors.New("x"))
			} else {
				results[i] = Ok(periods[i].String())
			}
		}
		s := ToSeries(periods, results, "zero")
		if len(s) != len(periods) {
			t.Fatalf("mask %b: length %d", mask, len(s))
		}
		for i, pt := range s {
			want := periods[i].String()
			if mask&(1<<i) != 0 {
				want = "zero"
			}
			if pt.Value != want || pt.Period != periods[i] {
				t.Fatalf("mask %b index %d: got %v", mask, i, pt)
			}
		}
	}
}

func TestToSeriesShortResults(t *testing.T) {
	periods := Window(3, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	s := ToSeries(periods, []Result[int]{Ok(7)}, 0)
	if len(s) != 3 || s[0].Value != 7 || !s[1].Filled || !s[2].Filled {
		t.Fatalf("unexpected series %v", s)
	}
}

func TestSeriesValue(t *testing.T) {
	periods := Window(3, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	s := ToSeries(periods, []Result[int]{Ok(1), Ok(2), Ok(3)}, 0)
	if got := s.Value(Period{2024, time.March}, -1); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := s.Value(Period{2023, time.March}, -1); got != -1 {
		t.Fatalf("expected fallback -1, got %d", got)
	}
	labels := s.Labels()
	if labels[0] != "2024-01" || labels[2] != "2024-03" {
		t.Fatalf("unexpected labels %v", labels)
	}
}

func TestMapKeepsFillMarkers(t *testing.T) {
	periods := Window(2, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	s := ToSeries(periods, []Result[int]{Ok(2), Fail[int](errors.New("x"))}, 0)
	doubled := Map(s, func(v int) int { return v * 2 })
	if doubled[0].Value != 4 || !doubled[1].Filled || doubled[1].Period != periods[1] {
		t.Fatalf("unexpected mapped series %v", doubled)
	}
}

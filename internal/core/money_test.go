package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents() != tc.cents {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.cents, got.Cents(), err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyDisplay(t *testing.T) {
	m := MoneyFromCents(123450)
	if got := m.Display("USD"); got != "$1,234.50" {
		t.Fatalf("unexpected display %q", got)
	}
	if got := MoneyFromCents(-500).Display("USD"); got != "-$5.00" {
		t.Fatalf("unexpected negative display %q", got)
	}
	if got := m.Display("not-a-code"); got != "$1,234.50" {
		t.Fatalf("expected USD fallback, got %q", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	var v struct {
		Total Money `json:"total"`
	}
	if err := json.Unmarshal([]byte(`{"total": 1520.5}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Total.Cents() != 152050 {
		t.Fatalf("unexpected cents %d", v.Total.Cents())
	}
	b, err := json.Marshal(v)
	if err != nil || string(b) != `{"total":1520.5}` {
		t.Fatalf("unexpected marshal %s (err=%v)", b, err)
	}
}

func TestMoneySub(t *testing.T) {
	got := MoneyFromCents(1000).Sub(MoneyFromCents(2500))
	if got.Cents() != -1500 {
		t.Fatalf("expected -1500, got %d", got.Cents())
	}
}

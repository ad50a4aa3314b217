package tui

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"finboard/internal/chart"
	"finboard/internal/core"
)

// TerminalSink draws chart specs as bar rows. It keeps the latest chart of
// each slot until the binding destroys it.
type TerminalSink struct {
	mu       sync.Mutex
	charts   map[chart.Slot]*termChart
	currency string
}

func NewTerminalSink(currency string) *TerminalSink {
	return &TerminalSink{charts: make(map[chart.Slot]*termChart), currency: currency}
}

type termChart struct {
	sink *TerminalSink
	slot chart.Slot
	spec chart.Spec
}

func (c *termChart) Destroy() {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	if c.sink.charts[c.slot] == c {
		delete(c.sink.charts, c.slot)
	}
}

func (s *TerminalSink) Draw(slot chart.Slot, spec chart.Spec) (chart.Chart, error) {
	if spec.Kind != chart.Line && spec.Kind != chart.Doughnut {
		return nil, fmt.Errorf("unsupported chart kind %s", spec.Kind)
	}
	c := &termChart{sink: s, slot: slot, spec: spec}
	s.mu.Lock()
	s.charts[slot] = c
	s.mu.Unlock()
	return c, nil
}

// Render returns the slot's chart laid out for width columns, or "" when
// the slot is empty.
func (s *TerminalSink) Render(slot chart.Slot, width int) string {
	s.mu.Lock()
	c, ok := s.charts[slot]
	s.mu.Unlock()
	if !ok {
		return ""
	}
	switch c.spec.Kind {
	case chart.Line:
		return s.renderLine(c.spec, width)
	case chart.Doughnut:
		return s.renderDoughnut(c.spec, width)
	}
	return ""
}

func (s *TerminalSink) money(v float64) string {
	return core.MoneyFromFloat(v).Display(s.currency)
}

func (s *TerminalSink) renderLine(spec chart.Spec, width int) string {
	var b strings.Builder
	b.WriteString(chartTitleStyle.Render(spec.Title))
	b.WriteString("\n")

	labelW := 0
	for _, l := range spec.Labels {
		labelW = max(labelW, lipgloss.Width(l))
	}
	barW := max(10, width-labelW-20)

	for di, ds := range spec.Datasets {
		color := lipgloss.Color(colorAt(spec.Style.Colors, di))
		if len(spec.Datasets) > 1 {
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render("■ " + ds.Label))
			b.WriteString("\n")
		}
		scale := maxAbs(ds.Values)
		for i, label := range spec.Labels {
			v := ds.Values[i]
			row := fmt.Sprintf("%-*s ", labelW, label)
			if i < len(ds.Filled) && ds.Filled[i] {
				b.WriteString(row + mutedStyle.Render(strings.Repeat("·", 3)+" no data") + "\n")
				continue
			}
			n := 0
			if scale > 0 {
				n = int(math.Round(math.Abs(v) / scale * float64(barW)))
			}
			bar := strings.Repeat("█", n)
			if v < 0 {
				bar = negativeStyle.Render(bar)
			} else {
				bar = lipgloss.NewStyle().Foreground(color).Render(bar)
			}
			b.WriteString(row + bar + " " + s.money(v) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *TerminalSink) renderDoughnut(spec chart.Spec, width int) string {
	var b strings.Builder
	b.WriteString(chartTitleStyle.Render(spec.Title))
	b.WriteString("\n")
	if len(spec.Labels) == 0 {
		b.WriteString(mutedStyle.Render("No expenses recorded this month."))
		return b.String()
	}

	values := spec.Datasets[0].Values
	total := 0.0
	for _, v := range values {
		total += math.Abs(v)
	}
	labelW := 0
	for _, l := range spec.Labels {
		labelW = max(labelW, lipgloss.Width(titleCaser.String(l)))
	}
	barW := max(10, width-labelW-28)

	for i, label := range spec.Labels {
		share := 0.0
		if total > 0 {
			share = math.Abs(values[i]) / total
		}
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorAt(spec.Style.Colors, i))).
			Render(strings.Repeat("█", int(math.Round(share*float64(barW)))))
		fmt.Fprintf(&b, "%-*s %s %5.1f%% %s\n", labelW, titleCaser.String(label), bar, share*100, s.money(values[i]))
	}
	return strings.TrimRight(b.String(), "\n")
}

func colorAt(colors []string, i int) string {
	if len(colors) == 0 {
		return chart.Palette[i%len(chart.Palette)]
	}
	return colors[i%len(colors)]
}

func maxAbs(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

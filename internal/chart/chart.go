// Package chart keeps at most one live chart per slot and hands chart specs
// to a rendering sink.
package chart

import (
	"errors"
	"fmt"
	"sync"

	applog "finboard/internal/log"
)

// Slot names a place on screen that holds one chart.
type Slot string

const (
	NetWorthSlot Slot = "networth"
	CategorySlot Slot = "categories"
	YearlySlot   Slot = "yearly"
)

type Kind int

const (
	// Line is a time series over periods.
	Line Kind = iota
	// Doughnut shows the proportion of each label in a single dataset.
	Doughnut
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Doughnut:
		return "doughnut"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Palette mirrors the colours of the web dashboard.
var Palette = []string{"#667eea", "#764ba2", "#f093fb", "#4facfe", "#43e97b", "#fa709a"}

type Dataset struct {
	Label  string
	Values []float64
	// Filled marks values that are fallbacks for failed fetches.
	Filled []bool
}

type Style struct {
	Colors []string
	// Area shades under line charts.
	Area bool
}

// Spec is everything a sink needs to draw a chart.
type Spec struct {
	Kind     Kind
	Title    string
	Labels   []string
	Datasets []Dataset
	Style    Style
}

var ErrEmptySpec = errors.New("chart spec has no datasets")

// Validate checks that every dataset lines up with the labels.
func (s Spec) Validate() error {
	if len(s.Datasets) == 0 {
		return ErrEmptySpec
	}
	for _, ds := range s.Datasets {
		if len(ds.Values) != len(s.Labels) {
			return fmt.Errorf("dataset %q has %d values for %d labels", ds.Label, len(ds.Values), len(s.Labels))
		}
		if ds.Filled != nil && len(ds.Filled) != len(ds.Values) {
			return fmt.Errorf("dataset %q has %d fill markers for %d values", ds.Label, len(ds.Filled), len(ds.Values))
		}
	}
	return nil
}

// Chart is a drawn chart owned by a sink.
type Chart interface {
	Destroy()
}

// Sink draws specs. Implementations must tolerate Destroy being called on
// a chart exactly once.
type Sink interface {
	Draw(slot Slot, spec Spec) (Chart, error)
}

// Handle is the live binding of a slot to its drawn chart.
type Handle struct {
	Slot  Slot
	Spec  Spec
	Chart Chart
}

// Binding owns the live handles. It is safe for concurrent use.
type Binding struct {
	mu     sync.Mutex
	sink   Sink
	live   map[Slot]*Handle
	logger *applog.Logger
}

func NewBinding(sink Sink, logger *applog.Logger) *Binding {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Binding{
		sink:   sink,
		live:   make(map[Slot]*Handle),
		logger: logger.WithComponent(applog.ComponentChart),
	}
}

// Bind draws spec into slot. Any chart already in slot is destroyed first,
// even if drawing the new one then fails.
func (b *Binding) Bind(slot Slot, spec Spec) (*Handle, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("bind %s: %w", slot, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseLocked(slot)

	c, err := b.sink.Draw(slot, spec)
	if err != nil {
		b.logger.Error("Chart draw failed",
			applog.FieldSlot, string(slot),
			applog.FieldOperation, applog.OpBind,
			applog.FieldError, err)
		return nil, fmt.Errorf("bind %s: %w", slot, err)
	}
	h := &Handle{Slot: slot, Spec: spec, Chart: c}
	b.live[slot] = h
	b.logger.Debug("Chart bound",
		applog.FieldSlot, string(slot),
		"kind", spec.Kind.String(),
		applog.FieldCount, len(spec.Labels))
	return h, nil
}

// Live returns the slot's current handle.
func (b *Binding) Live(slot Slot) (*Handle, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.live[slot]
	return h, ok
}

// Release destroys the slot's chart, if any.
func (b *Binding) Release(slot Slot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked(slot)
}

func (b *Binding) ReleaseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for slot := range b.live {
		b.releaseLocked(slot)
	}
}

// Count returns the number of live handles.
func (b *Binding) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

func (b *Binding) releaseLocked(slot Slot) {
	h, ok := b.live[slot]
	if !ok {
		return
	}
	delete(b.live, slot)
	if h.Chart != nil {
		h.Chart.Destroy()
	}
}

package core

// Result carries either a value or the error that prevented fetching it.
type Result[T any] struct {
	Value T
	Err   error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OK reports whether the result holds a value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Point is one entry of a Series. Filled marks entries that hold the
// zero-value fallback because their fetch failed.
type Point[T any] struct {
	Period Period
	Value  T
	Filled bool
}

// Series is ordered oldest to newest, one point per period of its window.
type Series[T any] []Point[T]

// ToSeries pairs periods with their results. Failed or missing results are
// replaced by zero, so the output always has len(periods) entries in input order.
func ToSeries[T any](periods []Period, results []Result[T], zero T) Series[T] {
	out := make(Series[T], len(periods))
	for i, p := range periods {
		if i < len(results) && results[i].OK() {
			out[i] = Point[T]{Period: p, Value: results[i].Value}
			continue
		}
		out[i] = Point[T]{Period: p, Value: zero, Filled: true}
	}
	return out
}

// Value returns the entry for target, or zero when the series has none.
func (s Series[T]) Value(target Period, zero T) T {
	for _, pt := range s {
		if pt.Period == target {
			return pt.Value
		}
	}
	return zero
}

func (s Series[T]) Labels() []string {
	out := make([]string, len(s))
	for i, pt := range s {
		out[i] = pt.Period.String()
	}
	return out
}

// Map projects every value through f, keeping periods and fill markers.
func Map[T, U any](s Series[T], f func(T) U) Series[U] {
	out := make(Series[U], len(s))
	for i, pt := range s {
		out[i] = Point[U]{Period: pt.Period, Value: f(pt.Value), Filled: pt.Filled}
	}
	return out
}

// Values returns the series values in order.
func (s Series[T]) Values() []T {
	out := make([]T, len(s))
	for i, pt := range s {
		out[i] = pt.Value
	}
	return out
}

// FilledCount returns how many entries hold the fallback value.
func (s Series[T]) FilledCount() int {
	n := 0
	for _, pt := range s {
		if pt.Filled {
			n++
		}
	}
	return n
}

// Package health maps a service health score to what the dashboard shows.
package health

import "finboard/internal/core"

// Label is the band a score falls into.
type Label string

const (
	Excellent Label = "Excellent"
	Good      Label = "Good"
	Fair      Label = "Fair"
	NeedsWork Label = "Needs Work"
)

// Affirmation replaces the recommendation list when it is empty.
const Affirmation = "Great job! Keep up the good work!"

// bands are ordered from the highest floor down; the first match wins.
var bands = []struct {
	floor int
	label Label
}{
	{80, Excellent},
	{60, Good},
	{40, Fair},
}

// Classify returns the band for score. Floors are inclusive.
func Classify(score int) Label {
	for _, b := range bands {
		if score >= b.floor {
			return b.label
		}
	}
	return NeedsWork
}

// Clamp bounds score to 0..100.
func Clamp(score int) int {
	return max(0, min(100, score))
}

// Block is a rendered recommendation list. Exactly one of Items or
// Affirmation is set.
type Block struct {
	Items       []string
	Affirmation string
}

// Empty reports whether the block is the affirmation branch.
func (b Block) Empty() bool {
	return b.Affirmation != ""
}

func RenderRecommendations(recs []string) Block {
	if len(recs) == 0 {
		return Block{Affirmation: Affirmation}
	}
	return Block{Items: append([]string(nil), recs...)}
}

// Summary is the health panel content.
type Summary struct {
	Score int
	Label Label
	Block Block
}

// Summarize clamps, classifies and renders a report.
func Summarize(r core.HealthReport) Summary {
	score := Clamp(r.Score)
	return Summary{Score: score, Label: Classify(score), Block: RenderRecommendations(r.Recommendations)}
}

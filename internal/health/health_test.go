package health

import (
	"testing"

	"finboard/internal/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		score int
		want  Label
	}{
		{100, Excellent},
		{80, Excellent},
		{79, Good},
		{60, Good},
		{59, Fair},
		{40, Fair},
		{39, NeedsWork},
		{0, NeedsWork},
		{-5, NeedsWork},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestRenderRecommendations(t *testing.T) {
	empty := RenderRecommendations(nil)
	if !empty.Empty() || empty.Affirmation != Affirmation || len(empty.Items) != 0 {
		t.Fatalf("expected affirmation block, got %+v", empty)
	}

	one := RenderRecommendations([]string{"save more"})
	if one.Empty() || len(one.Items) != 1 || one.Items[0] != "save more" {
		t.Fatalf("expected exactly one item, got %+v", one)
	}
}

func TestRenderRecommendations_CopiesInput(t *testing.T) {
	recs := []string{"a", "b"}
	block := RenderRecommendations(recs)
	recs[0] = "changed"
	if block.Items[0] != "a" {
		t.Fatalf("block must not alias the input slice")
	}
}

func TestSummarize_ClampsScore(t *testing.T) {
	s := Summarize(core.HealthReport{Score: 140})
	if s.Score != 100 || s.Label != Excellent || !s.Block.Empty() {
		t.Fatalf("unexpected summary %+v", s)
	}
	s = Summarize(core.HealthReport{Score: -3, Recommendations: []string{"x"}})
	if s.Score != 0 || s.Label != NeedsWork || s.Block.Empty() {
		t.Fatalf("unexpected summary %+v", s)
	}
}

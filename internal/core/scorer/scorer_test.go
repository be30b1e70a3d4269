package scorer

import (
	"context"
	"testing"

	"answer-grader/internal/core/verdict"
)

func testThresholds() verdict.Thresholds {
	return verdict.Thresholds{FuzzyStrict: 95, FuzzySoft: 90, Semantic: 0.75, EmbedMaxTokens: 512}
}

func TestScoreNoVariants(t *testing.T) {
	v := Score(context.Background(), "anything", nil, testThresholds(), "tpl/none")
	if v.IsCorrect || v.Method != verdict.MethodNone {
		t.Fatalf("expected negative none verdict, got %+v", v)
	}
}

func TestScoreNumber(t *testing.T) {
	v := Score(context.Background(), "0,5", []string{"0.5"}, testThresholds(), "tpl/num")
	if !v.IsCorrect || v.Method != verdict.MethodNumber {
		t.Fatalf("expected number verdict, got %+v", v)
	}
	if v.FuzzyScore != 100 || v.SemanticSim != 1 {
		t.Errorf("number tier should report trivially maximal scores, got %+v", v)
	}
}

func TestScoreFractionNotNumber(t *testing.T) {
	// Fraction notation is deliberately not numeric-equal to its decimal form.
	v := Score(context.Background(), "1/2", []string{"0.5"}, testThresholds(), "tpl/frac")
	if v.Method == verdict.MethodNumber {
		t.Fatalf("fractions must not match the numeric tier, got %+v", v)
	}
}

func TestScoreExact(t *testing.T) {
	cases := []struct {
		answer   string
		variants []string
	}{
		{"Astana", []string{"Astana", "Nur-Sultan"}},
		{"astana", []string{"Astana"}},
		{"Астана!", []string{"астана"}},
	}
	for _, c := range cases {
		v := Score(context.Background(), c.answer, c.variants, testThresholds(), "tpl/exact")
		if !v.IsCorrect || v.Method != verdict.MethodExact {
			t.Errorf("Score(%q, %v): expected exact, got %+v", c.answer, c.variants, v)
		}
	}
}

func TestScoreFuzzy(t *testing.T) {
	th := testThresholds()
	th.FuzzySoft = 85
	v := Score(context.Background(), "Astan", []string{"Astana"}, th, "tpl/fuzzy")
	if !v.IsCorrect {
		t.Fatalf("expected a fuzzy hit, got %+v", v)
	}
	if v.Method != verdict.MethodFuzzyStrict && v.Method != verdict.MethodFuzzySoft {
		t.Fatalf("expected fuzzy_strict or fuzzy_soft, got %q", v.Method)
	}
	if v.FuzzyScore <= 0 || v.FuzzyScore > 100 {
		t.Errorf("fuzzy score out of range: %f", v.FuzzyScore)
	}
}

func TestScoreMiss(t *testing.T) {
	th := testThresholds()
	v := Score(context.Background(), "Karaganda", []string{"Astana"}, th, "tpl/miss")
	if v.IsCorrect || v.Method != verdict.MethodNone {
		t.Fatalf("expected negative verdict, got %+v", v)
	}
	if v.FuzzyScore >= th.FuzzySoft {
		t.Errorf("near-miss fuzzy score unexpectedly high: %f", v.FuzzyScore)
	}
	if v.SemanticSim >= th.Semantic {
		t.Errorf("semantic similarity unexpectedly high: %f", v.SemanticSim)
	}
}

func TestScoreThresholdSnapshot(t *testing.T) {
	th := verdict.Thresholds{FuzzyStrict: 99, FuzzySoft: 42, Semantic: 0.9, EmbedMaxTokens: 16}
	v := Score(context.Background(), "x", []string{"y"}, th, "tpl/snap")
	if v.Thresholds != th {
		t.Errorf("verdict must snapshot the thresholds as given: %+v", v.Thresholds)
	}
}

func TestInvalidate(t *testing.T) {
	Invalidate("tpl/unknown") // must be a no-op for unknown scopes
}

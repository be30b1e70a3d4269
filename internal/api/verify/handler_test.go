package verify

import (
	"testing"

	"answer-grader/internal/core/scorer"
)

func TestToThresholdsNilPayload(t *testing.T) {
	var p *thresholdsPayload
	if p.toThresholds() != nil {
		t.Fatal("omitted thresholds must resolve to nil so defaults apply downstream")
	}
}

func TestToThresholdsPartialOverride(t *testing.T) {
	soft := 80.0
	p := &thresholdsPayload{FuzzySoft: &soft}
	th := p.toThresholds()
	if th == nil {
		t.Fatal("expected resolved thresholds")
	}
	def := scorer.DefaultThresholds()
	if th.FuzzySoft != 80 {
		t.Errorf("supplied field must be honored: %+v", th)
	}
	if th.FuzzyStrict != def.FuzzyStrict || th.Semantic != def.Semantic || th.EmbedMaxTokens != def.EmbedMaxTokens {
		t.Errorf("unset fields must keep the configured defaults: %+v", th)
	}
}

func TestToThresholdsExplicitZero(t *testing.T) {
	zero := 0.0
	zeroTokens := 0
	p := &thresholdsPayload{FuzzyStrict: &zero, FuzzySoft: &zero, Semantic: &zero, EmbedMaxTokens: &zeroTokens}
	th := p.toThresholds()
	if th == nil {
		t.Fatal("expected resolved thresholds")
	}
	if th.FuzzyStrict != 0 || th.FuzzySoft != 0 || th.Semantic != 0 || th.EmbedMaxTokens != 0 {
		t.Errorf("an explicit zero is a real cut-off, not an omission: %+v", th)
	}
}

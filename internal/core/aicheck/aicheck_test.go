package aicheck

import (
	"context"
	"errors"
	"strings"
	"testing"

	"answer-grader/internal/core/verdict"
)

type stubEngine struct {
	output string
	err    error
}

func (s *stubEngine) Name() string  { return "stub" }
func (s *stubEngine) Model() string { return "stub-model" }
func (s *stubEngine) Complete(context.Context, Input) (string, error) {
	return s.output, s.err
}

func TestVerifyParsesModelVerdict(t *testing.T) {
	eng := &stubEngine{output: `{"is_correct": true, "confidence": 90, "explanation": "синоним"}`}
	v := verifyWith(context.Background(), eng, Input{StudentAnswer: "голубой", Variants: []string{"синий"}})
	if !v.IsCorrect || v.Method != verdict.MethodAI {
		t.Fatalf("expected positive ai verdict, got %+v", v)
	}
	if v.Confidence != 0.9 {
		t.Errorf("confidence must be normalized to [0,1], got %f", v.Confidence)
	}
	if v.AIProvider != "stub" {
		t.Errorf("provider not recorded: %+v", v)
	}
}

func TestVerifyConfidenceClamped(t *testing.T) {
	eng := &stubEngine{output: `{"is_correct": true, "confidence": 250, "explanation": "x"}`}
	v := verifyWith(context.Background(), eng, Input{StudentAnswer: "a", Variants: []string{"b"}})
	if v.Confidence != 1 {
		t.Errorf("confidence above scale must clamp to 1, got %f", v.Confidence)
	}
}

func TestVerifyUnparseableFallsBack(t *testing.T) {
	eng := &stubEngine{output: "Я не могу ответить в формате JSON, извините."}
	v := verifyWith(context.Background(), eng, Input{StudentAnswer: "Astana", Variants: []string{"astana"}})
	if v.Method != verdict.MethodAIError {
		t.Fatalf("expected ai_error, got %+v", v)
	}
	if !v.IsCorrect {
		t.Error("exact case-insensitive match must survive an unparseable response")
	}
	if v.Confidence != 1 {
		t.Errorf("exact-match fallback keeps full confidence, got %f", v.Confidence)
	}
	if !strings.Contains(v.Explanation, "не удалось") && !strings.Contains(v.Explanation, "Не удалось") {
		t.Errorf("explanation should name the parse failure: %q", v.Explanation)
	}
}

func TestVerifyUnparseableNoMatchZeroConfidence(t *testing.T) {
	eng := &stubEngine{output: "Извините, я запутался и не могу дать ответ."}
	v := verifyWith(context.Background(), eng, Input{StudentAnswer: "Karaganda", Variants: []string{"Astana"}})
	if v.Method != verdict.MethodAIError || v.IsCorrect {
		t.Fatalf("expected negative ai_error verdict, got %+v", v)
	}
	if v.Confidence != 0 {
		t.Errorf("unparseable output without a match must carry zero confidence, got %f", v.Confidence)
	}
}

func TestVerifyProviderErrorFallsBack(t *testing.T) {
	eng := &stubEngine{err: errors.New("connection refused")}

	v := verifyWith(context.Background(), eng, Input{StudentAnswer: "Astana", Variants: []string{"Astana"}})
	if v.Method != verdict.MethodFallback || !v.IsCorrect || v.Confidence != 1 {
		t.Fatalf("expected positive fallback verdict, got %+v", v)
	}

	v = verifyWith(context.Background(), eng, Input{StudentAnswer: "Karaganda", Variants: []string{"Astana"}})
	if v.Method != verdict.MethodFallback || v.IsCorrect {
		t.Fatalf("expected negative fallback verdict, got %+v", v)
	}
	if !strings.Contains(v.Explanation, "connection refused") {
		t.Errorf("fallback should carry the provider error: %q", v.Explanation)
	}
}

func TestVerifyUnknownProvider(t *testing.T) {
	v := Verify(context.Background(), Input{
		StudentAnswer: "Astana",
		Variants:      []string{"Astana"},
		Provider:      "skynet",
	})
	if v.Method != verdict.MethodFallback || !v.IsCorrect {
		t.Fatalf("unknown provider must degrade to fallback matching, got %+v", v)
	}
}

func TestEngineSelection(t *testing.T) {
	cases := []struct {
		provider string
		name     string
	}{
		{"openai", ProviderOpenAI},
		{"groq", ProviderGroq},
		{"", ProviderGroq},
		{"Gemini", ProviderGemini},
		{"cohere", ProviderCohere},
		{"local", ProviderLocal},
	}
	for _, c := range cases {
		eng, err := engineFor(Input{Provider: c.provider})
		if err != nil {
			t.Errorf("engineFor(%q): %v", c.provider, err)
			continue
		}
		if eng.Name() != c.name {
			t.Errorf("engineFor(%q) = %s, want %s", c.provider, eng.Name(), c.name)
		}
	}
	if _, err := engineFor(Input{Provider: "skynet"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

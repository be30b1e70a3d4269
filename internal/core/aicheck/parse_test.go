package aicheck

import "testing"

func TestExtractVerdictStrict(t *testing.T) {
	res, ok := extractVerdict(`{"is_correct": true, "confidence": 95, "explanation": "синонимы"}`)
	if !ok {
		t.Fatal("expected successful parse")
	}
	if !res.IsCorrect || res.Confidence != 95 || res.Explanation != "синонимы" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestExtractVerdictCodeFences(t *testing.T) {
	res, ok := extractVerdict("```json\n{\"is_correct\": false, \"confidence\": 10, \"explanation\": \"нет\"}\n```")
	if !ok || res.IsCorrect || res.Confidence != 10 {
		t.Fatalf("fenced JSON should parse: ok=%v res=%+v", ok, res)
	}
}

func TestExtractVerdictSurroundingProse(t *testing.T) {
	text := `Вот мой ответ:
{"is_correct": true, "confidence": 80, "explanation": "ок"}
Надеюсь, это помогло!`
	res, ok := extractVerdict(text)
	if !ok || !res.IsCorrect || res.Confidence != 80 {
		t.Fatalf("JSON inside prose should parse: ok=%v res=%+v", ok, res)
	}
}

func TestExtractVerdictRepairs(t *testing.T) {
	cases := []string{
		`{'is_correct': true, 'confidence': 70, 'explanation': 'одинарные кавычки'}`,
		`{"is_correct": True, "confidence": 70, "explanation": "питоновский регистр"}`,
		`{"is_correct": true, "confidence": 70, "explanation": "хвостовая запятая",}`,
	}
	for _, c := range cases {
		res, ok := extractVerdict(c)
		if !ok || !res.IsCorrect || res.Confidence != 70 {
			t.Errorf("repair stage failed for %q: ok=%v res=%+v", c, ok, res)
		}
	}
}

func TestExtractVerdictRegexFallback(t *testing.T) {
	res, ok := extractVerdict(`The answer is wrong. is_correct: false, confidence: 42.5`)
	if !ok {
		t.Fatal("regex stage should extract fields")
	}
	if res.IsCorrect || res.Confidence != 42.5 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestExtractVerdictGarbage(t *testing.T) {
	for _, c := range []string{"", "мне непонятен вопрос", "{broken", "{}"} {
		if _, ok := extractVerdict(c); ok {
			t.Errorf("expected failure for %q", c)
		}
	}
}

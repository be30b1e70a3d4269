package aicheck

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// aiResult is the structured verdict extracted from model output. The
// confidence stays on the model's 0-100 scale here.
type aiResult struct {
	IsCorrect   bool
	Confidence  float64
	Explanation string
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	isCorrectRe     = regexp.MustCompile(`(?i)"?is_correct"?\s*[:=]\s*"?(true|false)"?`)
	confidenceRe    = regexp.MustCompile(`(?i)"?confidence"?\s*[:=]\s*"?([0-9]+(?:[.,][0-9]+)?)"?`)
	explanationRe   = regexp.MustCompile(`(?i)"?explanation"?\s*[:=]\s*"((?:[^"\\]|\\.)*)"`)
)

// extractVerdict pulls a structured verdict out of free-form model output.
// Stages: strict JSON between the outermost braces, then a repaired
// re-parse, then per-field regex extraction. Each stage is independent; the
// caller decides what a total failure means.
func extractVerdict(text string) (aiResult, bool) {
	candidate := stripCodeFences(text)
	if obj := sliceJSONObject(candidate); obj != "" {
		candidate = obj
	}

	if res, ok := parseStrict(candidate); ok {
		return res, true
	}
	if res, ok := parseStrict(repairJSON(candidate)); ok {
		return res, true
	}
	return parseFields(text)
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// sliceJSONObject returns the substring between the first '{' and the last
// '}', or "" when no object is present.
func sliceJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

func parseStrict(s string) (aiResult, bool) {
	if s == "" {
		return aiResult{}, false
	}
	var raw struct {
		IsCorrect   *bool       `json:"is_correct"`
		Confidence  json.Number `json:"confidence"`
		Explanation string      `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(s), &raw); err != nil || raw.IsCorrect == nil {
		return aiResult{}, false
	}
	confidence, _ := raw.Confidence.Float64()
	return aiResult{
		IsCorrect:   *raw.IsCorrect,
		Confidence:  confidence,
		Explanation: raw.Explanation,
	}, true
}

// repairJSON applies light fixes for the mistakes models actually make:
// single quotes, Python-style booleans and trailing commas.
func repairJSON(s string) string {
	if !strings.Contains(s, `"`) {
		s = strings.ReplaceAll(s, "'", `"`)
	}
	s = strings.ReplaceAll(s, "True", "true")
	s = strings.ReplaceAll(s, "False", "false")
	s = strings.ReplaceAll(s, "None", "null")
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// parseFields extracts is_correct, confidence and explanation individually.
// is_correct is mandatory; the rest default to zero values.
func parseFields(text string) (aiResult, bool) {
	m := isCorrectRe.FindStringSubmatch(text)
	if m == nil {
		return aiResult{}, false
	}
	res := aiResult{IsCorrect: strings.EqualFold(m[1], "true")}

	if cm := confidenceRe.FindStringSubmatch(text); cm != nil {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(cm[1], ",", "."), 64); err == nil {
			res.Confidence = f
		}
	}
	if em := explanationRe.FindStringSubmatch(text); em != nil {
		res.Explanation = em[1]
	}
	return res, true
}

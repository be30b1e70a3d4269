package aicheck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"answer-grader/config"
	"answer-grader/internal/core/verdict"
	"answer-grader/pkg/logger"
)

// Input describes one remote verification request. Provider, Model and
// APIKey are caller-supplied and fall back to configuration when empty.
type Input struct {
	StudentAnswer   string
	Variants        []string
	QuestionContext string
	Provider        string
	Model           string
	APIKey          string
}

// Engine is one language-model backend. Complete returns the raw model text
// for the verification prompt; parsing is shared across backends.
type Engine interface {
	Name() string
	Model() string
	Complete(ctx context.Context, in Input) (string, error)
}

// Providers is the closed set of supported backends.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
	ProviderCohere = "cohere"
	ProviderLocal  = "local"
)

func engineFor(in Input) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(in.Provider)) {
	case ProviderOpenAI:
		return newOpenAIEngine(in), nil
	case ProviderGroq, "":
		return newGroqEngine(in), nil
	case ProviderGemini:
		return newGeminiEngine(in), nil
	case ProviderCohere:
		return newCohereEngine(in), nil
	case ProviderLocal:
		return newLocalEngine(in), nil
	}
	return nil, fmt.Errorf("unsupported provider: %s", in.Provider)
}

// KnownProvider reports whether name selects a supported backend; the empty
// string selects the configured default.
func KnownProvider(name string) bool {
	_, err := engineFor(Input{Provider: name})
	return err == nil
}

// ResolveModel reports the model name a given input would be verified with,
// without making any call. The cache key depends on it.
func ResolveModel(in Input) string {
	eng, err := engineFor(in)
	if err != nil {
		return in.Model
	}
	return eng.Model()
}

// Verify asks a language-model backend whether the student answer matches
// any accepted variant. It never returns an error: provider failures and
// unparseable output degrade to a deterministic exact-match fallback.
func Verify(ctx context.Context, in Input) verdict.Verdict {
	eng, err := engineFor(in)
	if err != nil {
		logger.Error(err, "%v: engine selection failed", config.ModuleAICheck)
		return fallbackVerdict(in, err.Error())
	}
	return verifyWith(ctx, eng, in)
}

func verifyWith(ctx context.Context, eng Engine, in Input) verdict.Verdict {
	timeout := time.Duration(config.Cfg.AI.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := eng.Complete(ctx, in)
	if err != nil {
		logger.Error(err, "%v: %s call failed", config.ModuleAICheck, eng.Name())
		return fallbackVerdict(in, err.Error())
	}

	res, ok := extractVerdict(raw)
	if !ok {
		logger.Errorf("%v: %s returned unparseable output: %s", config.ModuleAICheck, eng.Name(), truncate(raw, 512))
		v := fallbackVerdict(in, "")
		v.Method = verdict.MethodAIError
		v.Explanation = fmt.Sprintf("Не удалось распознать JSON из ответа AI: '%s'", truncate(raw, 256))
		if !v.IsCorrect {
			// Nothing trustworthy was extracted; only an exact match keeps
			// its confidence.
			v.Confidence = 0
		}
		return v
	}

	confidence := res.Confidence / 100
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return verdict.Verdict{
		IsCorrect:   res.IsCorrect,
		Method:      verdict.MethodAI,
		Confidence:  confidence,
		Explanation: res.Explanation,
		AIProvider:  eng.Name(),
	}
}

// fallbackVerdict performs a case-insensitive exact-match check so the
// pipeline degrades to "at least as good as naive matching" when the AI
// path fails.
func fallbackVerdict(in Input, reason string) verdict.Verdict {
	student := strings.ToLower(strings.TrimSpace(in.StudentAnswer))
	for _, v := range in.Variants {
		if student == strings.ToLower(strings.TrimSpace(v)) {
			return verdict.Verdict{
				IsCorrect:   true,
				Method:      verdict.MethodFallback,
				Confidence:  1.0,
				Explanation: "Точное совпадение (fallback)",
				AIProvider:  "fallback",
			}
		}
	}
	explanation := "Нет точного совпадения (fallback)"
	if reason != "" {
		explanation = "Fallback: " + truncate(reason, 256)
	}
	return verdict.Verdict{
		Method:      verdict.MethodFallback,
		Confidence:  0.8,
		Explanation: explanation,
		AIProvider:  "fallback",
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}

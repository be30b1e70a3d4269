package scorer

import (
	"context"

	"answer-grader/config"
	"answer-grader/internal/core/embedding"
	"answer-grader/internal/core/textnorm"
	"answer-grader/internal/core/variantindex"
	"answer-grader/internal/core/verdict"
	"answer-grader/pkg/logger"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultThresholds returns the configured tier cut-offs.
func DefaultThresholds() verdict.Thresholds {
	t := config.Cfg.Thresholds
	return verdict.Thresholds{
		FuzzyStrict:    t.FuzzyStrict,
		FuzzySoft:      t.FuzzySoft,
		Semantic:       t.Semantic,
		EmbedMaxTokens: t.EmbedMaxTokens,
	}
}

// fuzzyScore is the 0-100 token-set similarity of two texts after
// normalization; word order does not matter.
func fuzzyScore(a, b string) float64 {
	return float64(fuzzy.TokenSetRatio(textnorm.Normalize(a), textnorm.Normalize(b)))
}

// Score checks a student answer against the accepted variants, cheapest
// tier first: numeric, exact, fuzzy-strict, semantic, fuzzy-soft. It never
// calls a language model and never fails for well-formed input; when the
// embedding backend is unavailable the semantic tier is skipped.
func Score(ctx context.Context, studentAnswer string, list []string, th verdict.Thresholds, scopeID string) verdict.Verdict {
	if len(list) == 0 {
		return verdict.Verdict{Method: verdict.MethodNone, Thresholds: th}
	}

	studentNorm := textnorm.Normalize(studentAnswer)

	// Numeric literals first: "0,5" matches "0.5".
	if textnorm.IsNumber(studentAnswer) {
		for _, v := range list {
			if textnorm.NumericEqual(studentAnswer, v) {
				return verdict.Verdict{
					IsCorrect:   true,
					Method:      verdict.MethodNumber,
					FuzzyScore:  100,
					SemanticSim: 1,
					Thresholds:  th,
				}
			}
		}
	}

	for _, v := range list {
		if studentNorm == textnorm.Normalize(v) {
			return verdict.Verdict{
				IsCorrect:   true,
				Method:      verdict.MethodExact,
				FuzzyScore:  100,
				SemanticSim: 1,
				Thresholds:  th,
			}
		}
	}

	var bestFuzzy float64
	for _, v := range list {
		score := fuzzyScore(studentAnswer, v)
		if score > bestFuzzy {
			bestFuzzy = score
		}
		if score >= th.FuzzyStrict {
			return verdict.Verdict{
				IsCorrect:   true,
				Method:      verdict.MethodFuzzyStrict,
				FuzzyScore:  score,
				SemanticSim: 1,
				Thresholds:  th,
			}
		}
	}

	bestSem, hit := semanticTier(ctx, studentAnswer, list, th, scopeID)
	if hit {
		return verdict.Verdict{
			IsCorrect:   true,
			Method:      verdict.MethodSemantic,
			FuzzyScore:  bestFuzzy,
			SemanticSim: bestSem,
			Thresholds:  th,
		}
	}

	if bestFuzzy >= th.FuzzySoft {
		return verdict.Verdict{
			IsCorrect:   true,
			Method:      verdict.MethodFuzzySoft,
			FuzzyScore:  bestFuzzy,
			SemanticSim: bestSem,
			Thresholds:  th,
		}
	}

	return verdict.Verdict{
		Method:      verdict.MethodNone,
		FuzzyScore:  bestFuzzy,
		SemanticSim: bestSem,
		Thresholds:  th,
	}
}

// semanticTier embeds the lemmatized student answer and compares it against
// the cached variant embeddings for the scope. It returns the best cosine
// similarity observed and whether it reached the threshold.
func semanticTier(ctx context.Context, studentAnswer string, list []string, th verdict.Thresholds, scopeID string) (float64, bool) {
	prepared, err := variants.prepare(ctx, scopeID, list, th.EmbedMaxTokens)
	if err != nil {
		logger.Error(err, "%v: variant embeddings unavailable, skipping semantic tier", config.ModuleScorer)
		return 0, false
	}

	studentLemma := embedding.Lemmatize(textnorm.Normalize(studentAnswer))
	studentVec, err := embedding.Embed(ctx, studentLemma, th.EmbedMaxTokens)
	if err != nil {
		logger.Error(err, "%v: student embedding failed, skipping semantic tier", config.ModuleScorer)
		return 0, false
	}

	if variantindex.Enabled() {
		if hits, err := variantindex.Search(ctx, scopeID, studentVec, len(prepared)); err == nil && len(hits) > 0 {
			var best float64
			for _, h := range hits {
				if s := float64(h.Score); s > best {
					best = s
				}
			}
			return best, best >= th.Semantic
		}
		// Index unavailable: fall through to the in-process comparison.
	}

	var best float64
	for _, p := range prepared {
		sim := embedding.Cosine(studentVec, p.vector)
		if sim > best {
			best = sim
		}
		if sim >= th.Semantic {
			return sim, true
		}
	}
	return best, false
}

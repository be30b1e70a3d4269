package orchestrator

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"answer-grader/config"
	"answer-grader/internal/core/aicheck"
	"answer-grader/internal/core/scorer"
	"answer-grader/internal/core/verdict"
	"answer-grader/internal/services/ailog"
	"answer-grader/internal/services/cache"
)

// Request is one verification job: a student answer against its accepted
// variants. Zero-valued thresholds fall back to configuration; Provider,
// Model and APIKey override the configured AI backend per request.
type Request struct {
	StudentAnswer   string
	Variants        []string
	QuestionContext string
	ScopeID         string
	// Thresholds, when set, are honored exactly as given — zero cut-offs
	// included. Nil selects the configured defaults.
	Thresholds *verdict.Thresholds
	// AIEnabled overrides the configured AI toggle when set.
	AIEnabled *bool
	Provider  string
	Model     string
	APIKey    string
}

// Orchestrator chains the local scorer, the response cache and the remote
// verifier. The collaborators are function fields so tests can substitute
// them without a database or network.
type Orchestrator struct {
	score       func(ctx context.Context, answer string, list []string, th verdict.Thresholds, scopeID string) verdict.Verdict
	aiCheck     func(ctx context.Context, in aicheck.Input) verdict.Verdict
	cacheLookup func(ctx context.Context, key string) (verdict.Verdict, bool)
	cacheStore  func(ctx context.Context, key string, entry cache.Entry, v verdict.Verdict)
	audit       func(e ailog.Entry)
}

func New() *Orchestrator {
	return &Orchestrator{
		score:       scorer.Score,
		aiCheck:     aicheck.Verify,
		cacheLookup: cache.Lookup,
		cacheStore:  cache.Store,
		audit:       ailog.Append,
	}
}

// Verify runs the full pipeline for one request. The local scorer always
// runs; the remote verifier is consulted only when the local pass rejects,
// AI checking is enabled, and the answer is longer than one character.
// Verify never fails: every path ends in a verdict.
func (o *Orchestrator) Verify(ctx context.Context, req Request) verdict.Verdict {
	th := scorer.DefaultThresholds()
	if req.Thresholds != nil {
		th = *req.Thresholds
	}
	local := o.score(ctx, req.StudentAnswer, req.Variants, th, req.ScopeID)
	if local.IsCorrect {
		return local
	}

	aiEnabled := config.Cfg.AI.Enabled
	if req.AIEnabled != nil {
		aiEnabled = *req.AIEnabled
	}
	trimmed := strings.TrimSpace(req.StudentAnswer)
	if !aiEnabled || utf8.RuneCountInString(trimmed) <= 1 {
		return local
	}

	in := aicheck.Input{
		StudentAnswer:   req.StudentAnswer,
		Variants:        req.Variants,
		QuestionContext: req.QuestionContext,
		Provider:        req.Provider,
		Model:           req.Model,
		APIKey:          req.APIKey,
	}
	model := aicheck.ResolveModel(in)
	key := cache.Key(req.StudentAnswer, req.Variants, req.QuestionContext, model)

	if v, ok := o.cacheLookup(ctx, key); ok {
		v = withLocalDiagnostics(v, local, th)
		o.auditCheck(req, model, v)
		return v
	}

	v := o.aiCheck(ctx, in)
	v = withLocalDiagnostics(v, local, th)

	// Only genuine model verdicts are worth replaying; fallbacks and parse
	// failures should retry the provider next time.
	if v.Method == verdict.MethodAI {
		o.cacheStore(ctx, key, cache.Entry{
			StudentAnswer:   req.StudentAnswer,
			Variants:        req.Variants,
			QuestionContext: req.QuestionContext,
			Provider:        v.AIProvider,
			Model:           model,
		}, v)
	}
	o.auditCheck(req, model, v)
	return v
}

// withLocalDiagnostics carries the local tier scores into a remote verdict
// so responses always report how close the cheap tiers came.
func withLocalDiagnostics(v, local verdict.Verdict, th verdict.Thresholds) verdict.Verdict {
	v.FuzzyScore = local.FuzzyScore
	v.SemanticSim = local.SemanticSim
	v.Thresholds = th
	return v
}

func (o *Orchestrator) auditCheck(req Request, model string, v verdict.Verdict) {
	o.audit(ailog.Entry{
		StudentAnswer:   req.StudentAnswer,
		Variants:        req.Variants,
		QuestionContext: req.QuestionContext,
		Provider:        v.AIProvider,
		Model:           model,
		IsCorrect:       v.IsCorrect,
		Confidence:      v.Confidence,
		Explanation:     v.Explanation,
		Method:          string(v.Method),
		FromCache:       v.FromCache,
	})
}

// BatchResult summarizes one batch verification.
type BatchResult struct {
	Details      []verdict.Verdict `json:"details"`
	CorrectCount int               `json:"correct_count"`
	Total        int               `json:"total"`
	Percentage   float64           `json:"percentage"`
	AICheckCount int               `json:"ai_check_count"`
}

const batchWorkers = 8

// VerifyBatch verifies every request concurrently and tallies the outcome.
// Result order matches request order.
func (o *Orchestrator) VerifyBatch(ctx context.Context, reqs []Request) BatchResult {
	details := make([]verdict.Verdict, len(reqs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, batchWorkers)
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			details[i] = o.Verify(ctx, req)
		}(i, req)
	}
	wg.Wait()

	res := BatchResult{Details: details, Total: len(reqs)}
	for _, v := range details {
		if v.IsCorrect {
			res.CorrectCount++
		}
		switch v.Method {
		case verdict.MethodAI, verdict.MethodAIError, verdict.MethodFallback:
			res.AICheckCount++
		}
	}
	if res.Total > 0 {
		res.Percentage = float64(res.CorrectCount) / float64(res.Total) * 100
	}
	return res
}

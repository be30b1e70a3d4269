package orchestrator

import (
	"context"
	"sync"
	"testing"

	"answer-grader/internal/core/aicheck"
	"answer-grader/internal/core/scorer"
	"answer-grader/internal/core/verdict"
	"answer-grader/internal/services/ailog"
	"answer-grader/internal/services/cache"
)

type fakes struct {
	mu sync.Mutex

	localVerdict verdict.Verdict
	aiVerdict    verdict.Verdict
	cached       *verdict.Verdict

	scoreCalls  int
	scoredWith  verdict.Thresholds
	aiCalls     int
	lookupCalls int
	storeCalls  int
	stored      []verdict.Verdict
	audited     []ailog.Entry
}

func (f *fakes) orchestrator() *Orchestrator {
	return &Orchestrator{
		score: func(_ context.Context, _ string, _ []string, th verdict.Thresholds, _ string) verdict.Verdict {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.scoreCalls++
			f.scoredWith = th
			return f.localVerdict
		},
		aiCheck: func(context.Context, aicheck.Input) verdict.Verdict {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.aiCalls++
			return f.aiVerdict
		},
		cacheLookup: func(context.Context, string) (verdict.Verdict, bool) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.lookupCalls++
			if f.cached != nil {
				return *f.cached, true
			}
			return verdict.Verdict{}, false
		},
		cacheStore: func(_ context.Context, _ string, _ cache.Entry, v verdict.Verdict) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.storeCalls++
			f.stored = append(f.stored, v)
		},
		audit: func(e ailog.Entry) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.audited = append(f.audited, e)
		},
	}
}

func req() Request {
	return Request{StudentAnswer: "Караганда", Variants: []string{"Астана"}}
}

func TestVerifyLocalHitShortCircuits(t *testing.T) {
	f := &fakes{localVerdict: verdict.Verdict{IsCorrect: true, Method: verdict.MethodExact}}
	v := f.orchestrator().Verify(context.Background(), req())
	if !v.IsCorrect || v.Method != verdict.MethodExact {
		t.Fatalf("expected the local verdict, got %+v", v)
	}
	if f.aiCalls != 0 || f.lookupCalls != 0 {
		t.Errorf("remote path must not run after a local hit: %+v", f)
	}
}

func TestVerifyTrivialAnswerSkipsAI(t *testing.T) {
	f := &fakes{localVerdict: verdict.Verdict{Method: verdict.MethodNone}}
	r := req()
	r.StudentAnswer = " a "
	v := f.orchestrator().Verify(context.Background(), r)
	if v.IsCorrect {
		t.Fatalf("expected local miss, got %+v", v)
	}
	if f.aiCalls != 0 {
		t.Error("single-character answers must not reach the AI")
	}
}

func TestVerifyThresholdsHonoredExactly(t *testing.T) {
	f := &fakes{localVerdict: verdict.Verdict{IsCorrect: true, Method: verdict.MethodExact}}
	r := req()
	th := verdict.Thresholds{FuzzyStrict: 0, FuzzySoft: 0, Semantic: 0, EmbedMaxTokens: 0}
	r.Thresholds = &th
	f.orchestrator().Verify(context.Background(), r)
	if f.scoredWith != th {
		t.Fatalf("supplied thresholds must reach the scorer unchanged, zero cut-offs included: %+v", f.scoredWith)
	}
}

func TestVerifyThresholdsDefaultWhenAbsent(t *testing.T) {
	f := &fakes{localVerdict: verdict.Verdict{IsCorrect: true, Method: verdict.MethodExact}}
	f.orchestrator().Verify(context.Background(), req())
	if f.scoredWith != scorer.DefaultThresholds() {
		t.Fatalf("absent thresholds must resolve to the configured defaults: %+v", f.scoredWith)
	}
}

func TestVerifyAIDisabledPerRequest(t *testing.T) {
	f := &fakes{localVerdict: verdict.Verdict{Method: verdict.MethodNone}}
	r := req()
	disabled := false
	r.AIEnabled = &disabled
	v := f.orchestrator().Verify(context.Background(), r)
	if v.Method != verdict.MethodNone {
		t.Fatalf("expected the local miss verdict, got %+v", v)
	}
	if f.aiCalls != 0 || f.lookupCalls != 0 {
		t.Errorf("ai_enabled=false must keep the pipeline local: %+v", f)
	}
}

func TestVerifyCacheHitSkipsAI(t *testing.T) {
	hit := verdict.Verdict{IsCorrect: true, Method: verdict.MethodAI, FromCache: true, Confidence: 0.9, AIProvider: "groq"}
	f := &fakes{
		localVerdict: verdict.Verdict{Method: verdict.MethodNone, FuzzyScore: 40},
		cached:       &hit,
	}
	v := f.orchestrator().Verify(context.Background(), req())
	if !v.FromCache || !v.IsCorrect {
		t.Fatalf("expected cached verdict, got %+v", v)
	}
	if v.FuzzyScore != 40 {
		t.Errorf("local diagnostics must be carried onto cached verdicts: %+v", v)
	}
	if f.aiCalls != 0 || f.storeCalls != 0 {
		t.Errorf("cache hit must skip provider and store: %+v", f)
	}
	if len(f.audited) != 1 || !f.audited[0].FromCache {
		t.Errorf("cache hits are audited with FromCache set: %+v", f.audited)
	}
}

func TestVerifyCacheMissCallsAIAndStores(t *testing.T) {
	f := &fakes{
		localVerdict: verdict.Verdict{Method: verdict.MethodNone},
		aiVerdict:    verdict.Verdict{IsCorrect: true, Method: verdict.MethodAI, Confidence: 0.85, AIProvider: "groq"},
	}
	v := f.orchestrator().Verify(context.Background(), req())
	if !v.IsCorrect || v.Method != verdict.MethodAI {
		t.Fatalf("expected the AI verdict, got %+v", v)
	}
	if f.aiCalls != 1 || f.storeCalls != 1 {
		t.Errorf("miss must call provider once and store once: %+v", f)
	}
}

func TestVerifyFallbackVerdictNotCached(t *testing.T) {
	for _, method := range []verdict.Method{verdict.MethodFallback, verdict.MethodAIError} {
		f := &fakes{
			localVerdict: verdict.Verdict{Method: verdict.MethodNone},
			aiVerdict:    verdict.Verdict{Method: method, AIProvider: "fallback"},
		}
		f.orchestrator().Verify(context.Background(), req())
		if f.storeCalls != 0 {
			t.Errorf("%s verdicts must not be cached", method)
		}
	}
}

func TestVerifyBatchTallies(t *testing.T) {
	f := &fakes{
		localVerdict: verdict.Verdict{IsCorrect: true, Method: verdict.MethodExact},
	}
	reqs := []Request{req(), req(), req(), req()}
	res := f.orchestrator().VerifyBatch(context.Background(), reqs)
	if res.Total != 4 || res.CorrectCount != 4 || res.Percentage != 100 {
		t.Fatalf("unexpected tally: %+v", res)
	}
	if res.AICheckCount != 0 {
		t.Errorf("local hits are not AI checks: %+v", res)
	}
	if len(res.Details) != 4 {
		t.Errorf("details must match request order and count: %d", len(res.Details))
	}
}

func TestVerifyBatchCountsAIChecks(t *testing.T) {
	f := &fakes{
		localVerdict: verdict.Verdict{Method: verdict.MethodNone},
		aiVerdict:    verdict.Verdict{IsCorrect: true, Method: verdict.MethodAI, AIProvider: "groq"},
	}
	res := f.orchestrator().VerifyBatch(context.Background(), []Request{req(), req()})
	if res.AICheckCount != 2 || res.CorrectCount != 2 {
		t.Fatalf("unexpected tally: %+v", res)
	}
	if res.Percentage != 100 {
		t.Errorf("percentage: %f", res.Percentage)
	}
}

func TestVerifyBatchEmpty(t *testing.T) {
	f := &fakes{}
	res := f.orchestrator().VerifyBatch(context.Background(), nil)
	if res.Total != 0 || res.Percentage != 0 {
		t.Fatalf("empty batch must tally to zero: %+v", res)
	}
}

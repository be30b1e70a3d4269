package scorer

import (
	"context"
	"sync"

	"answer-grader/config"
	"answer-grader/internal/core/embedding"
	"answer-grader/internal/core/textnorm"
	"answer-grader/internal/core/variantindex"
	"answer-grader/pkg/logger"
)

// variantEmbedding pairs a normalized variant lemma with its vector.
type variantEmbedding struct {
	lemma  string
	vector []float32
}

// variantCache memoizes variant embeddings per question scope for the
// process lifetime. Entries are built once and shared read-only afterwards;
// they are not rebuilt when the variant list for a scope changes mid-process.
// That staleness is accepted — Invalidate exists for callers that know better.
type variantCache struct {
	mu      sync.RWMutex
	entries map[string][]variantEmbedding
}

var variants = &variantCache{entries: make(map[string][]variantEmbedding)}

// prepare returns the cached embeddings for scope, building them on first
// use. A failed build is not cached, so a later call retries. Concurrent
// first builds race with last-writer-wins semantics; each writer stores a
// fully built slice, so readers never observe a partial entry.
func (c *variantCache) prepare(ctx context.Context, scope string, list []string, maxTokens int) ([]variantEmbedding, error) {
	c.mu.RLock()
	prepared, ok := c.entries[scope]
	c.mu.RUnlock()
	if ok {
		return prepared, nil
	}

	built := make([]variantEmbedding, 0, len(list))
	for _, v := range list {
		lemma := embedding.Lemmatize(textnorm.Normalize(v))
		vec, err := embedding.Embed(ctx, lemma, maxTokens)
		if err != nil {
			return nil, err
		}
		built = append(built, variantEmbedding{lemma: lemma, vector: vec})
	}

	c.mu.Lock()
	c.entries[scope] = built
	c.mu.Unlock()

	if variantindex.Enabled() {
		idx := make([]variantindex.Entry, len(built))
		for i, b := range built {
			idx[i] = variantindex.Entry{Text: b.lemma, Vector: b.vector}
		}
		if err := variantindex.Upsert(ctx, scope, idx); err != nil {
			logger.Error(err, "%v: variant index upsert failed for scope %s", config.ModuleScorer, scope)
		}
	}
	return built, nil
}

// Invalidate drops the cached embeddings for one scope. Nothing calls it
// automatically; it is a hook for callers that edit variant lists in place.
func Invalidate(scope string) {
	variants.mu.Lock()
	delete(variants.entries, scope)
	variants.mu.Unlock()
}

package embedding

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"answer-grader/config"
	"answer-grader/internal/core/textnorm"
	"answer-grader/pkg/logger"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/ru"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// The embedding client and the lemmatizer are loaded once per process. Each
// is guarded by its own lock for the whole check-then-build, so concurrent
// first callers do not construct duplicates and later callers read the
// settled value under the same lock.
var (
	clientMu sync.Mutex
	client   *openai.Client

	lemmaMu    sync.Mutex
	lemmatizer *golem.Lemmatizer
	lemmaTried bool
)

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func ensureClient() (*openai.Client, error) {
	clientMu.Lock()
	defer clientMu.Unlock()
	if client != nil {
		return client, nil
	}
	key := config.Cfg.OpenAI.Key
	if key == "" {
		return nil, errors.New("missing openai key")
	}
	c := openai.NewClient(option.WithAPIKey(key))
	client = &c
	return client, nil
}

// ensureLemmatizer loads the Russian dictionary on first use. The lemmatizer
// is an optimization: when it cannot be built, callers fall back to the
// normalized text.
func ensureLemmatizer() *golem.Lemmatizer {
	lemmaMu.Lock()
	defer lemmaMu.Unlock()
	if lemmatizer != nil || lemmaTried {
		return lemmatizer
	}
	lemmaTried = true
	l, err := golem.New(ru.New())
	if err != nil {
		logger.Error(err, "%v: lemmatizer unavailable, falling back to normalization", config.ModuleEmbedding)
		return nil
	}
	lemmatizer = l
	return lemmatizer
}

// Lemmatize reduces each word of text to its lemma, best effort. Unknown
// words pass through unchanged; without a dictionary it returns the
// normalized text as-is.
func Lemmatize(text string) string {
	norm := textnorm.Normalize(text)
	l := ensureLemmatizer()
	if l == nil || norm == "" {
		return norm
	}
	words := strings.Fields(norm)
	for i, w := range words {
		if lemma := l.Lemma(w); lemma != "" {
			words[i] = lemma
		}
	}
	return strings.Join(words, " ")
}

// TruncateTokens keeps the first maxTokens whitespace-delimited tokens. This
// is a token-budget guard, not subword truncation.
func TruncateTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}
	tokens := strings.Fields(text)
	if len(tokens) <= maxTokens {
		return text
	}
	return strings.Join(tokens[:maxTokens], " ")
}

// Embed encodes text into a single dense vector, truncating the input to
// maxTokens tokens first. It fails loudly when the backend cannot be
// reached so callers can skip the semantic tier.
func Embed(ctx context.Context, text string, maxTokens int) ([]float32, error) {
	c, err := ensureClient()
	if err != nil {
		return nil, err
	}
	safe := TruncateTokens(text, maxTokens)

	req := embeddingRequest{Model: config.Cfg.OpenAI.EmbeddingModel, Input: []string{safe}}
	var out embeddingResponse
	if err := c.Post(ctx, "/embeddings", req, &out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, errors.New(out.Error.Message)
	}
	if len(out.Data) == 0 {
		return nil, errors.New("no embedding returned")
	}
	src := out.Data[0].Embedding
	vec := make([]float32, len(src))
	for i := range src {
		vec[i] = float32(src[i])
	}
	return vec, nil
}

// Preload forces eager initialization of the embedding backend and the
// lemmatizer so the first real request does not pay the load latency. The
// returned error signals degraded semantic capability; per-request scoring
// still proceeds on the remaining tiers.
func Preload(ctx context.Context) error {
	ensureLemmatizer()
	if _, err := ensureClient(); err != nil {
		return err
	}
	// Warm-up call, also validates credentials.
	if _, err := Embed(ctx, "warmup", 8); err != nil {
		return err
	}
	return nil
}

// Cosine returns the cosine similarity of two vectors, 0 for mismatched or
// zero-length input.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

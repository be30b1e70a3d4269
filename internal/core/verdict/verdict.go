package verdict

// Method identifies which matching tier produced a verdict.
type Method string

const (
	MethodNone        Method = "none"
	MethodNumber      Method = "number"
	MethodExact       Method = "exact"
	MethodFuzzyStrict Method = "fuzzy_strict"
	MethodFuzzySoft   Method = "fuzzy_soft"
	MethodSemantic    Method = "semantic"
	MethodAI          Method = "ai"
	MethodAIError     Method = "ai_error"
	MethodFallback    Method = "fallback"
)

// Thresholds are the tier cut-offs for one scoring call. They are honored
// exactly as given; no clamping.
type Thresholds struct {
	FuzzyStrict    float64 `json:"fuzzy_strict"`
	FuzzySoft      float64 `json:"fuzzy_soft"`
	Semantic       float64 `json:"semantic"`
	EmbedMaxTokens int     `json:"embed_max_tokens"`
}

// Verdict is the outcome of one verification. It is created once per call
// and never mutated afterwards.
type Verdict struct {
	IsCorrect   bool       `json:"is_correct"`
	Method      Method     `json:"method"`
	FuzzyScore  float64    `json:"fuzzy_score"`
	SemanticSim float64    `json:"semantic_sim"`
	Thresholds  Thresholds `json:"thresholds_used"`
	FromCache   bool       `json:"from_cache"`
	// Confidence is only meaningful for AI-sourced verdicts, scaled to [0,1].
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation,omitempty"`
	AIProvider  string  `json:"ai_provider,omitempty"`
}

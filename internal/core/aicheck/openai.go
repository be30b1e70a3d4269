package aicheck

import (
	"context"
	"errors"

	"answer-grader/config"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}
type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatEngine covers every OpenAI-compatible chat-completion backend; Groq
// only differs in base URL, key and default model.
type chatEngine struct {
	name    string
	key     string
	model   string
	baseURL string
}

func newOpenAIEngine(in Input) *chatEngine {
	e := &chatEngine{name: ProviderOpenAI, key: in.APIKey, model: in.Model}
	if e.key == "" {
		e.key = config.Cfg.OpenAI.Key
	}
	if e.model == "" {
		e.model = config.Cfg.OpenAI.Model
	}
	return e
}

func newGroqEngine(in Input) *chatEngine {
	e := &chatEngine{name: ProviderGroq, key: in.APIKey, model: in.Model, baseURL: config.Cfg.Groq.BaseURL}
	if e.key == "" {
		e.key = config.Cfg.Groq.Key
	}
	if e.model == "" {
		e.model = config.Cfg.Groq.Model
	}
	return e
}

func (e *chatEngine) Name() string  { return e.name }
func (e *chatEngine) Model() string { return e.model }

func (e *chatEngine) Complete(ctx context.Context, in Input) (string, error) {
	if e.key == "" {
		return "", errors.New("missing " + e.name + " api key")
	}
	opts := []option.RequestOption{option.WithAPIKey(e.key)}
	if e.baseURL != "" {
		opts = append(opts, option.WithBaseURL(e.baseURL))
	}
	client := openai.NewClient(opts...)

	req := chatRequest{
		Model:       e.model,
		Temperature: config.Cfg.AI.Temperature,
		MaxTokens:   config.Cfg.AI.MaxOutputTokens,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(in)},
		},
	}
	var out chatResponse
	if err := client.Post(ctx, "/chat/completions", req, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return out.Choices[0].Message.Content, nil
}

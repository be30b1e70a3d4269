package aicheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"answer-grader/config"
)

const cohereGenerateURL = "https://api.cohere.ai/v1/generate"

type cohereEngine struct {
	key   string
	model string
	url   string
	httpc *http.Client
}

func newCohereEngine(in Input) *cohereEngine {
	e := &cohereEngine{key: in.APIKey, model: in.Model, url: cohereGenerateURL, httpc: http.DefaultClient}
	if e.key == "" {
		e.key = config.Cfg.Cohere.Key
	}
	if e.model == "" {
		e.model = config.Cfg.Cohere.Model
	}
	return e
}

func (e *cohereEngine) Name() string  { return ProviderCohere }
func (e *cohereEngine) Model() string { return e.model }

func (e *cohereEngine) Complete(ctx context.Context, in Input) (string, error) {
	if e.key == "" {
		return "", errors.New("missing cohere api key")
	}

	body := map[string]any{
		"model":       e.model,
		"prompt":      systemPrompt + "\n\n" + buildPrompt(in),
		"max_tokens":  config.Cfg.AI.MaxOutputTokens,
		"temperature": config.Cfg.AI.Temperature,
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.key)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("cohere %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var out struct {
		Generations []struct {
			Text string `json:"text"`
		} `json:"generations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Generations) == 0 {
		return "", errors.New("cohere: empty generations")
	}
	return strings.TrimSpace(out.Generations[0].Text), nil
}

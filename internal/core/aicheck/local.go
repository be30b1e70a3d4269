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

// localEngine targets an Ollama-style /api/generate endpoint for
// on-premises models. No API key is required.
type localEngine struct {
	endpoint string
	model    string
	httpc    *http.Client
}

func newLocalEngine(in Input) *localEngine {
	e := &localEngine{endpoint: config.Cfg.LocalLLM.Endpoint, model: in.Model, httpc: http.DefaultClient}
	if e.model == "" {
		e.model = config.Cfg.LocalLLM.Model
	}
	return e
}

func (e *localEngine) Name() string  { return ProviderLocal }
func (e *localEngine) Model() string { return e.model }

func (e *localEngine) Complete(ctx context.Context, in Input) (string, error) {
	if e.endpoint == "" {
		return "", errors.New("missing local llm endpoint")
	}

	body := map[string]any{
		"model":  e.model,
		"prompt": systemPrompt + "\n\n" + buildPrompt(in),
		"stream": false,
		"options": map[string]any{
			"temperature": config.Cfg.AI.Temperature,
			"num_predict": config.Cfg.AI.MaxOutputTokens,
		},
	}
	payload, _ := json.Marshal(body)

	url := strings.TrimSuffix(e.endpoint, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("local llm %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Response), nil
}

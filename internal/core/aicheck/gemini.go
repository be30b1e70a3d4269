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

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1"

type geminiEngine struct {
	key     string
	model   string
	baseURL string
	httpc   *http.Client
}

func newGeminiEngine(in Input) *geminiEngine {
	e := &geminiEngine{key: in.APIKey, model: in.Model, baseURL: geminiBaseURL, httpc: http.DefaultClient}
	if e.key == "" {
		e.key = config.Cfg.Gemini.Key
	}
	if e.model == "" {
		e.model = config.Cfg.Gemini.Model
	}
	return e
}

func (e *geminiEngine) Name() string  { return ProviderGemini }
func (e *geminiEngine) Model() string { return e.model }

func (e *geminiEngine) Complete(ctx context.Context, in Input) (string, error) {
	if e.key == "" {
		return "", errors.New("missing gemini api key")
	}

	body := map[string]any{
		"contents": []any{
			map[string]any{
				"parts": []any{
					map[string]any{"text": systemPrompt + "\n\n" + buildPrompt(in)},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     config.Cfg.AI.Temperature,
			"maxOutputTokens": config.Cfg.AI.MaxOutputTokens,
		},
	}
	payload, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", e.baseURL, e.model, e.key)

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
		return "", fmt.Errorf("gemini %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: empty candidates")
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}

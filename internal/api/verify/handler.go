package verify

import (
	"answer-grader/config"
	"answer-grader/internal/core/aicheck"
	"answer-grader/internal/core/orchestrator"
	"answer-grader/internal/core/scorer"
	"answer-grader/internal/core/verdict"
	"answer-grader/pkg/apperror"
	"answer-grader/pkg/apperror/status"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
)

var orch = orchestrator.New()

// thresholdsPayload uses pointer fields so an explicit zero cut-off is
// distinguishable from an omitted one.
type thresholdsPayload struct {
	FuzzyStrict    *float64 `json:"fuzzy_strict"`
	FuzzySoft      *float64 `json:"fuzzy_soft"`
	Semantic       *float64 `json:"semantic"`
	EmbedMaxTokens *int     `json:"embed_max_tokens"`
}

// toThresholds resolves the payload against the configured defaults; fields
// the caller set are honored exactly as given. A nil payload means "use the
// defaults" downstream.
func (p *thresholdsPayload) toThresholds() *verdict.Thresholds {
	if p == nil {
		return nil
	}
	th := scorer.DefaultThresholds()
	if p.FuzzyStrict != nil {
		th.FuzzyStrict = *p.FuzzyStrict
	}
	if p.FuzzySoft != nil {
		th.FuzzySoft = *p.FuzzySoft
	}
	if p.Semantic != nil {
		th.Semantic = *p.Semantic
	}
	if p.EmbedMaxTokens != nil {
		th.EmbedMaxTokens = *p.EmbedMaxTokens
	}
	return &th
}

type verifyRequest struct {
	Answer          string             `json:"answer"`
	Variants        []string           `json:"variants"`
	QuestionContext string             `json:"question_context"`
	ScopeID         string             `json:"scope_id"`
	AIEnabled       *bool              `json:"ai_enabled"`
	Provider        string             `json:"provider"`
	Model           string             `json:"model"`
	APIKey          string             `json:"api_key"`
	Thresholds      *thresholdsPayload `json:"thresholds"`
}

func HandleVerify(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	var req verifyRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleVerify, c, status.VerifyInvalidRequestBody, err.Error())
	}
	if strings.TrimSpace(req.Answer) == "" {
		return apperror.BadRequest(config.ModuleVerify, c, status.VerifyMissingParams, "answer is empty")
	}
	if !aicheck.KnownProvider(req.Provider) {
		return apperror.BadRequest(config.ModuleVerify, c, status.VerifyUnknownProvider,
			fmt.Sprintf("unknown provider: %s", req.Provider))
	}

	v := orch.Verify(context.Background(), orchestrator.Request{
		StudentAnswer:   req.Answer,
		Variants:        req.Variants,
		QuestionContext: req.QuestionContext,
		ScopeID:         req.ScopeID,
		Thresholds:      req.Thresholds.toThresholds(),
		AIEnabled:       req.AIEnabled,
		Provider:        req.Provider,
		Model:           req.Model,
		APIKey:          req.APIKey,
	})

	return apperror.Success(config.ModuleVerify, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "verify ok",
		TrackingID: trackingID,
		Data:       v,
	})
}

type batchItem struct {
	Answer          string   `json:"answer"`
	Variants        []string `json:"variants"`
	QuestionContext string   `json:"question_context"`
	ScopeID         string   `json:"scope_id"`
}

type batchRequest struct {
	Answers    []batchItem        `json:"answers"`
	AIEnabled  *bool              `json:"ai_enabled"`
	Provider   string             `json:"provider"`
	Model      string             `json:"model"`
	APIKey     string             `json:"api_key"`
	Thresholds *thresholdsPayload `json:"thresholds"`
}

func HandleVerifyBatch(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	var req batchRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleVerify, c, status.VerifyInvalidRequestBody, err.Error())
	}
	if len(req.Answers) == 0 {
		return apperror.BadRequest(config.ModuleVerify, c, status.VerifyMissingParams, "answers is empty")
	}
	if !aicheck.KnownProvider(req.Provider) {
		return apperror.BadRequest(config.ModuleVerify, c, status.VerifyUnknownProvider,
			fmt.Sprintf("unknown provider: %s", req.Provider))
	}

	th := req.Thresholds.toThresholds()
	reqs := make([]orchestrator.Request, 0, len(req.Answers))
	for _, item := range req.Answers {
		reqs = append(reqs, orchestrator.Request{
			StudentAnswer:   item.Answer,
			Variants:        item.Variants,
			QuestionContext: item.QuestionContext,
			ScopeID:         item.ScopeID,
			Thresholds:      th,
			AIEnabled:       req.AIEnabled,
			Provider:        req.Provider,
			Model:           req.Model,
			APIKey:          req.APIKey,
		})
	}

	res := orch.VerifyBatch(context.Background(), reqs)

	return apperror.Success(config.ModuleVerify, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "batch verify ok",
		TrackingID: trackingID,
		Data:       res,
	})
}

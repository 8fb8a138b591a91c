// Package judge wraps the TruthMeter-Judge grading model. The judge brand is
// fixed; GPT-4o is the inference engine underneath and is not exposed through
// the API surface.
package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/truth-meter/backend/pkg/circuitbreaker"
	"github.com/truth-meter/backend/pkg/logger"
	"github.com/truth-meter/backend/pkg/retry"
)

const (
	ModelName    = "TruthMeter-Judge-v1.0"
	ModelVersion = "1.0.0"
	TrainingDate = "2024-12"
)

// ErrNotConfigured is returned by Evaluate when no grading credential is
// present. Unlike provider failures this is fatal for the request: an
// unconfigured judge must surface as an error, not as a zero-score verdict.
var ErrNotConfigured = errors.New("judge model unavailable: API key not configured")

// Verdict is the judge's scoring of one candidate answer. Scores are taken
// verbatim from the grading reply; the nominal 0-100 range is not enforced.
type Verdict struct {
	AccuracyScore     float64 `json:"accuracy_score"`
	ClarityScore      float64 `json:"clarity_score"`
	CompletenessScore float64 `json:"completeness_score"`
	Reasoning         string  `json:"reasoning"`
	JudgedBy          string  `json:"judged_by"`
	ModelVersion      string  `json:"model_version"`
}

// Info describes the judge model for the model-info endpoint.
type Info struct {
	ModelName        string   `json:"model_name"`
	Version          string   `json:"version"`
	TrainingDate     string   `json:"training_date"`
	Specialization   string   `json:"specialization"`
	SupportedDomains []string `json:"supported_domains"`
	Description      string   `json:"description"`
}

type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	MaxAttempts int
	// BaseURL overrides the inference endpoint; used by tests.
	BaseURL string
}

type Judge struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func New(cfg Config) *Judge {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}

	var client *openai.Client
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		client = openai.NewClientWithConfig(clientCfg)
	}

	cb := circuitbreaker.NewCircuitBreaker("judge", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    cfg.MaxAttempts,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("Judge initialized",
		zap.String("judge", ModelName),
		zap.String("inference_model", cfg.Model),
		zap.Bool("configured", client != nil),
	)

	return &Judge{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

// Evaluate grades candidateResponse against referenceAnswer. A missing
// credential returns ErrNotConfigured; any failure after that point (call
// error, malformed reply) degrades to a zero-score verdict whose reasoning
// starts with "Evaluation failed:" and a nil error.
func (j *Judge) Evaluate(ctx context.Context, question, referenceAnswer, candidateResponse string) (*Verdict, error) {
	if j.client == nil {
		return nil, ErrNotConfigured
	}

	prompt := buildPrompt(question, referenceAnswer, candidateResponse)

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	var raw string

	err := j.cb.Execute(ctx, func() error {
		return retry.Do(ctx, j.retryConfig, func() error {
			resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model: j.model,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleUser, Content: prompt},
				},
				Temperature: j.temperature,
				MaxTokens:   j.maxTokens,
				ResponseFormat: &openai.ChatCompletionResponseFormat{
					Type: openai.ChatCompletionResponseFormatTypeJSONObject,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("no completion choices returned")
			}
			raw = resp.Choices[0].Message.Content
			return nil
		})
	})

	if err != nil {
		logger.Warn("Judge inference failed", zap.Error(err))
		return failedVerdict(err), nil
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		logger.Warn("Judge reply unparseable", zap.Error(err), zap.Int("reply_length", len(raw)))
		return failedVerdict(err), nil
	}

	logger.Info("Response judged",
		zap.Float64("accuracy", verdict.AccuracyScore),
		zap.Float64("clarity", verdict.ClarityScore),
		zap.Float64("completeness", verdict.CompletenessScore),
	)

	return verdict, nil
}

// GetInfo returns the judge model descriptor.
func (j *Judge) GetInfo() Info {
	return Info{
		ModelName:        ModelName,
		Version:          ModelVersion,
		TrainingDate:     TrainingDate,
		Specialization:   "Educational Content Evaluation",
		SupportedDomains: []string{"Mathematics", "Science", "History", "Literature"},
		Description:      "Proprietary AI model trained on expert-labeled educational Q&A pairs",
	}
}

// Configured reports whether a grading credential is present.
func (j *Judge) Configured() bool {
	return j.client != nil
}

func parseVerdict(raw string) (*Verdict, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, "```json", ""), "```", ""))

	var v Verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, fmt.Errorf("failed to parse judge reply: %w", err)
	}

	v.JudgedBy = ModelName
	v.ModelVersion = ModelVersion
	return &v, nil
}

func failedVerdict(err error) *Verdict {
	return &Verdict{
		Reasoning:    fmt.Sprintf("Evaluation failed: %s", err.Error()),
		JudgedBy:     ModelName,
		ModelVersion: ModelVersion,
	}
}

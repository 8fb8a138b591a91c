package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/truth-meter/backend/internal/judge"
	"github.com/truth-meter/backend/internal/metrics"
	"github.com/truth-meter/backend/internal/provider"
	"github.com/truth-meter/backend/internal/storage/models"
	"github.com/truth-meter/backend/pkg/logger"
)

// Store is the slice of the persistence layer the orchestrator needs.
type Store interface {
	GetQuestion(id string) (*models.Question, error)
	InsertEvaluation(e *models.Evaluation) error
}

// Gateway produces candidate answers. It never fails: provider errors arrive
// as degraded text results.
type Gateway interface {
	GetResponse(ctx context.Context, providerName, modelName, prompt string) provider.Result
}

// Grader scores a candidate answer. A nil error with zero scores means the
// grading call itself degraded; a non-nil error is fatal for the request.
type Grader interface {
	Evaluate(ctx context.Context, question, referenceAnswer, candidateResponse string) (*judge.Verdict, error)
}

// RunResult is the persisted record id merged with the gateway text and the
// judge's verdict.
type RunResult struct {
	ID                string  `json:"id"`
	QuestionID        string  `json:"question_id"`
	Provider          string  `json:"provider"`
	ModelName         string  `json:"model_name"`
	ResponseText      string  `json:"response_text"`
	AccuracyScore     float64 `json:"accuracy_score"`
	ClarityScore      float64 `json:"clarity_score"`
	CompletenessScore float64 `json:"completeness_score"`
	Reasoning         string  `json:"reasoning"`
	JudgedBy          string  `json:"judged_by"`
	ModelVersion      string  `json:"model_version"`
}

type Orchestrator struct {
	store   Store
	gateway Gateway
	grader  Grader
}

func NewOrchestrator(store Store, gateway Gateway, grader Grader) *Orchestrator {
	return &Orchestrator{
		store:   store,
		gateway: gateway,
		grader:  grader,
	}
}

// Run executes one evaluation: question lookup, candidate-model call, grading,
// persistence. The steps are strictly sequential with no rollback; a second
// run with identical inputs creates a second independent record.
func (o *Orchestrator) Run(ctx context.Context, questionID, providerName, modelName string) (*RunResult, error) {
	startTime := time.Now()

	question, err := o.store.GetQuestion(questionID)
	if err != nil {
		// The one hard stop before persistence.
		return nil, err
	}

	logger.Info("Running evaluation",
		zap.String("question_id", questionID),
		zap.String("provider", providerName),
		zap.String("model", modelName),
	)

	// The record stores the resolved model, so runs requested as "auto" group
	// under the concrete model in by-model analytics.
	resolvedModel := provider.ResolveModel(providerName, modelName)

	response := o.gateway.GetResponse(ctx, providerName, modelName, question.Text)
	if response.Degraded {
		metrics.DegradedResponses.WithLabelValues(providerName).Inc()
	}

	verdict, err := o.grader.Evaluate(ctx, question.Text, question.ReferenceAnswer, response.Text)
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("judge evaluation failed: %w", err)
	}

	record := &models.Evaluation{
		ID:                uuid.New().String(),
		QuestionID:        question.ID,
		Provider:          providerName,
		ModelName:         resolvedModel,
		ResponseText:      response.Text,
		AccuracyScore:     verdict.AccuracyScore,
		ClarityScore:      verdict.ClarityScore,
		CompletenessScore: verdict.CompletenessScore,
		Reasoning:         verdict.Reasoning,
		JudgedBy:          verdict.JudgedBy,
		ModelVersion:      verdict.ModelVersion,
		CreatedAt:         time.Now(),
	}

	if err := o.store.InsertEvaluation(record); err != nil {
		metrics.EvaluationsTotal.WithLabelValues(providerName, "error").Inc()
		return nil, err
	}

	metrics.EvaluationsTotal.WithLabelValues(providerName, "success").Inc()
	metrics.EvaluationDuration.WithLabelValues(providerName).Observe(time.Since(startTime).Seconds())
	metrics.AccuracyScores.Observe(verdict.AccuracyScore)

	logger.Info("Evaluation completed",
		zap.String("evaluation_id", record.ID),
		zap.String("question_id", questionID),
		zap.Float64("accuracy", verdict.AccuracyScore),
		zap.Int("latency_ms", int(time.Since(startTime).Milliseconds())),
	)

	return &RunResult{
		ID:                record.ID,
		QuestionID:        record.QuestionID,
		Provider:          record.Provider,
		ModelName:         record.ModelName,
		ResponseText:      record.ResponseText,
		AccuracyScore:     record.AccuracyScore,
		ClarityScore:      record.ClarityScore,
		CompletenessScore: record.CompletenessScore,
		Reasoning:         record.Reasoning,
		JudgedBy:          record.JudgedBy,
		ModelVersion:      record.ModelVersion,
	}, nil
}

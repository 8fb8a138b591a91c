package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/truth-meter/backend/internal/cache/redis"
	"github.com/truth-meter/backend/internal/evaluation"
	"github.com/truth-meter/backend/internal/storage/models"
	"github.com/truth-meter/backend/internal/storage/sqlite"
	"github.com/truth-meter/backend/pkg/logger"
)

// Runner executes one evaluation pipeline.
type Runner interface {
	Run(ctx context.Context, questionID, providerName, modelName string) (*evaluation.RunResult, error)
}

// EvaluationStore lists persisted evaluations.
type EvaluationStore interface {
	ListEvaluations(skip, limit int) ([]models.Evaluation, error)
}

type EvaluationHandler struct {
	runner Runner
	store  EvaluationStore
	cache  *redis.Client
}

func NewEvaluationHandler(runner Runner, store EvaluationStore, cache *redis.Client) *EvaluationHandler {
	return &EvaluationHandler{
		runner: runner,
		store:  store,
		cache:  cache,
	}
}

// RunEvaluation is the one endpoint with a distinct domain error: a missing
// question is a 404. Provider failures never reach here as errors; they are
// graded and persisted like any other answer.
func (h *EvaluationHandler) RunEvaluation(c *fiber.Ctx) error {
	var req struct {
		QuestionID string `json:"question_id"`
		ModelName  string `json:"model_name"`
		Provider   string `json:"provider"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.QuestionID == "" || req.Provider == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question_id and provider are required",
		})
	}

	result, err := h.runner.Run(c.Context(), req.QuestionID, req.Provider, req.ModelName)
	if err != nil {
		if errors.Is(err, sqlite.ErrQuestionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		logger.Error("Evaluation run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.cache.Invalidate(c.Context())

	return c.JSON(result)
}

func (h *EvaluationHandler) ListEvaluations(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	evaluations, err := h.store.ListEvaluations(skip, limit)
	if err != nil {
		logger.Error("Failed to list evaluations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(evaluations)
}

package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/truth-meter/backend/internal/cache/redis"
	"github.com/truth-meter/backend/internal/metrics"
	"github.com/truth-meter/backend/internal/storage/models"
	"github.com/truth-meter/backend/internal/storage/sqlite"
	"github.com/truth-meter/backend/pkg/logger"
)

// QuestionStore is the persistence surface the question endpoints need.
type QuestionStore interface {
	InsertQuestion(q *models.Question) error
	GetQuestion(id string) (*models.Question, error)
	ListQuestions(skip, limit int) ([]models.Question, error)
	DeleteQuestion(id string) error
}

type QuestionHandler struct {
	store QuestionStore
	cache *redis.Client
}

func NewQuestionHandler(store QuestionStore, cache *redis.Client) *QuestionHandler {
	return &QuestionHandler{
		store: store,
		cache: cache,
	}
}

func (h *QuestionHandler) CreateQuestion(c *fiber.Ctx) error {
	var req struct {
		Text            string `json:"text"`
		Subject         string `json:"subject"`
		ReferenceAnswer string `json:"reference_answer"`
		Difficulty      string `json:"difficulty"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Text == "" || req.Subject == "" || req.ReferenceAnswer == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "text, subject and reference_answer are required",
		})
	}

	if req.Difficulty == "" {
		req.Difficulty = "Medium"
	}

	question := &models.Question{
		ID:              uuid.New().String(),
		Text:            req.Text,
		Subject:         req.Subject,
		ReferenceAnswer: req.ReferenceAnswer,
		Difficulty:      req.Difficulty,
		CreatedAt:       time.Now(),
	}

	if err := h.store.InsertQuestion(question); err != nil {
		logger.Error("Failed to insert question", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	metrics.QuestionsCreated.Inc()
	h.cache.Invalidate(c.Context())

	return c.Status(fiber.StatusCreated).JSON(question)
}

func (h *QuestionHandler) ListQuestions(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	questions, err := h.store.ListQuestions(skip, limit)
	if err != nil {
		logger.Error("Failed to list questions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(questions)
}

func (h *QuestionHandler) GetQuestion(c *fiber.Ctx) error {
	question, err := h.store.GetQuestion(c.Params("id"))
	if err != nil {
		if errors.Is(err, sqlite.ErrQuestionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		logger.Error("Failed to get question", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(question)
}

// DeleteQuestion removes a question only; evaluations referencing it remain
// and drop out of by-subject analytics.
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.store.DeleteQuestion(id); err != nil {
		if errors.Is(err, sqlite.ErrQuestionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		logger.Error("Failed to delete question", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	metrics.QuestionsDeleted.Inc()
	h.cache.Invalidate(c.Context())

	return c.JSON(fiber.Map{
		"message": "Question deleted",
		"id":      id,
	})
}

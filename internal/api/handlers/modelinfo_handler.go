package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/truth-meter/backend/internal/judge"
)

type ModelInfoHandler struct {
	judge *judge.Judge
}

func NewModelInfoHandler(j *judge.Judge) *ModelInfoHandler {
	return &ModelInfoHandler{judge: j}
}

// GetModelInfo returns the grading model's static descriptor. The judge brand
// is independent of whichever provider produced the candidate answer.
func (h *ModelInfoHandler) GetModelInfo(c *fiber.Ctx) error {
	return c.JSON(h.judge.GetInfo())
}

func (h *ModelInfoHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "operational",
		"model":  judge.ModelName,
		"ready":  h.judge.Configured(),
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/truth-meter/backend/internal/analytics"
	"github.com/truth-meter/backend/internal/cache/redis"
	"github.com/truth-meter/backend/pkg/logger"
)

// Analytics is the aggregate-query surface exposed over HTTP.
type Analytics interface {
	Overview() (*analytics.Overview, error)
	BySubject() ([]analytics.SubjectStats, error)
	ByModel() ([]analytics.ModelStats, error)
}

type AnalyticsHandler struct {
	aggregator Analytics
	cache      *redis.Client
}

func NewAnalyticsHandler(aggregator Analytics, cache *redis.Client) *AnalyticsHandler {
	return &AnalyticsHandler{
		aggregator: aggregator,
		cache:      cache,
	}
}

func (h *AnalyticsHandler) GetOverview(c *fiber.Ctx) error {
	var cached analytics.Overview
	if hit, err := h.cache.Get(c.Context(), "overview", &cached); err == nil && hit {
		return c.JSON(cached)
	}

	overview, err := h.aggregator.Overview()
	if err != nil {
		logger.Error("Failed to compute overview", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.cache.Set(c.Context(), "overview", overview); err != nil {
		logger.Warn("Failed to cache overview", zap.Error(err))
	}

	return c.JSON(overview)
}

func (h *AnalyticsHandler) GetBySubject(c *fiber.Ctx) error {
	var cached []analytics.SubjectStats
	if hit, err := h.cache.Get(c.Context(), "by-subject", &cached); err == nil && hit {
		return c.JSON(cached)
	}

	stats, err := h.aggregator.BySubject()
	if err != nil {
		logger.Error("Failed to compute by-subject stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.cache.Set(c.Context(), "by-subject", stats); err != nil {
		logger.Warn("Failed to cache by-subject stats", zap.Error(err))
	}

	return c.JSON(stats)
}

func (h *AnalyticsHandler) GetByModel(c *fiber.Ctx) error {
	var cached []analytics.ModelStats
	if hit, err := h.cache.Get(c.Context(), "by-model", &cached); err == nil && hit {
		return c.JSON(cached)
	}

	stats, err := h.aggregator.ByModel()
	if err != nil {
		logger.Error("Failed to compute by-model stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.cache.Set(c.Context(), "by-model", stats); err != nil {
		logger.Warn("Failed to cache by-model stats", zap.Error(err))
	}

	return c.JSON(stats)
}

package handler

import (
	"context"
	"time"

	"job-board/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger *zap.Logger
}

func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{db: db, logger: logger}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.HandleHealth)
}

func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	if h.db == nil {
		return response.JSON(c, fiber.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "down"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check ping failed", zap.Error(err))
		return response.JSON(c, fiber.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "down"})
	}
	return response.JSON(c, fiber.StatusOK, healthResponse{Status: "ok", Database: "up"})
}

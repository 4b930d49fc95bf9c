package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/config"
	"github.com/forma-studio/forma-portal/internal/services"
	"gorm.io/gorm"
)

// HealthHandler handles the liveness/readiness route
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
}

// Check handles GET /api/health
// @Summary Health check
// @Description Report service and database health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Config, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}

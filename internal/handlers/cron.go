package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/utils"
)

// CronHandler handles scheduler-invoked routes
type CronHandler struct {
	Reminders *services.ReminderService
}

// SweepReminders handles POST /api/cron/reminders
// @Summary Run the meeting reminder sweep
// @Description Email clients with meetings roughly 24 hours out and mark them reminded
// @Tags Cron
// @Produce json
// @Success 200 {object} services.SweepResult
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /cron/reminders [post]
// @Security BearerAuth
func (h *CronHandler) SweepReminders(c *fiber.Ctx) error {
	result, err := h.Reminders.Sweep(c.Context(), time.Now())
	if err != nil {
		return serviceError(c, err, "sweepReminders")
	}
	return utils.SuccessResponse(c, result, fiber.StatusOK)
}

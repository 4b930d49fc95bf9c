package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/ratelimit"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/utils"
)

// ContactHandler handles the public contact form
type ContactHandler struct {
	Contact *services.ContactService
	Limiter ratelimit.Limiter
}

// Submit handles POST /api/contact
// @Summary Submit the contact form
// @Description Archive a public message and open a lead from it
// @Tags Contact
// @Accept json
// @Produce json
// @Param payload body services.ContactInput true "Form payload"
// @Success 201 {object} services.ContactResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 429 {object} utils.ErrorResponseStruct
// @Router /contact [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	if !checkRateLimit(c, h.Limiter, "contact:"+clientIP(c), 6, time.Minute) {
		return nil
	}

	var in services.ContactInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "بدنه درخواست نامعتبر است.", fiber.StatusBadRequest, "contact")
	}

	result, err := h.Contact.Submit(c.Context(), &in)
	if err != nil {
		return serviceError(c, err, "contact")
	}
	return utils.SuccessResponse(c, result, fiber.StatusCreated)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/utils"
)

// EstimateHandler handles staff quote routes
type EstimateHandler struct {
	Estimates *services.EstimateService
}

// Attach handles PUT /api/admin/requests/:id/estimate
// @Summary Attach or update an estimate
// @Description Upsert the quote for a lead and force it into ESTIMATE_SENT
// @Tags Estimates
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body services.AttachEstimateInput true "Quote payload"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/requests/{id}/estimate [put]
// @Security BearerAuth
func (h *EstimateHandler) Attach(c *fiber.Ctx) error {
	var in services.AttachEstimateInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "بدنه درخواست نامعتبر است.", fiber.StatusBadRequest, "attachEstimate")
	}
	in.RequestID = c.Params("id")

	result, err := h.Estimates.Attach(c.Context(), &in)
	if err != nil {
		return serviceError(c, err, "attachEstimate")
	}

	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return utils.SuccessResponse(c, fiber.Map{
		"id":      result.EstimateID,
		"created": result.Created,
	}, status)
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/utils"
)

// AvailabilityHandler handles consultation slot routes
type AvailabilityHandler struct {
	Availability *services.AvailabilityService
}

type createSlotsRequest struct {
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	RepeatWeeks int       `json:"repeatWeeks"`
}

// ListFree handles GET /api/availability
// @Summary List free upcoming slots
// @Description List unbooked future consultation slots, soonest first
// @Tags Availability
// @Produce json
// @Param limit query int false "Max slots to return"
// @Success 200 {array} models.AvailabilitySlot
// @Router /availability [get]
func (h *AvailabilityHandler) ListFree(c *fiber.Ctx) error {
	slots, err := h.Availability.ListUpcomingFree(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return serviceError(c, err, "listAvailability")
	}
	return utils.SuccessResponse(c, slots, fiber.StatusOK)
}

// ListAll handles GET /api/admin/availability
// @Summary List all upcoming slots
// @Description List future slots for the admin calendar, booked included
// @Tags Availability
// @Produce json
// @Param limit query int false "Max slots to return"
// @Success 200 {array} models.AvailabilitySlot
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/availability [get]
// @Security BearerAuth
func (h *AvailabilityHandler) ListAll(c *fiber.Ctx) error {
	slots, err := h.Availability.ListUpcoming(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return serviceError(c, err, "listAllAvailability")
	}
	return utils.SuccessResponse(c, slots, fiber.StatusOK)
}

// Create handles POST /api/admin/availability
// @Summary Publish slots
// @Description Create a slot, optionally repeated weekly
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body createSlotsRequest true "Slot window and repetition"
// @Success 201 {object} map[string]int
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/availability [post]
// @Security BearerAuth
func (h *AvailabilityHandler) Create(c *fiber.Ctx) error {
	var in createSlotsRequest
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "بدنه درخواست نامعتبر است.", fiber.StatusBadRequest, "createSlots")
	}

	count, err := h.Availability.CreateSlots(c.Context(), in.StartAt, in.EndAt, in.RepeatWeeks)
	if err != nil {
		return serviceError(c, err, "createSlots")
	}
	return utils.SuccessResponse(c, fiber.Map{"created": count}, fiber.StatusCreated)
}

// Delete handles DELETE /api/admin/availability/:id
// @Summary Delete a free slot
// @Description Remove an unbooked slot; booked slots return 409
// @Tags Availability
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/availability/{id} [delete]
// @Security BearerAuth
func (h *AvailabilityHandler) Delete(c *fiber.Ctx) error {
	if err := h.Availability.DeleteSlot(c.Context(), c.Params("id")); err != nil {
		return serviceError(c, err, "deleteSlot")
	}
	return utils.SuccessResponse(c, fiber.Map{"ok": true}, fiber.StatusOK)
}

package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/ratelimit"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/utils"
)

// RequestHandler handles lead routes
type RequestHandler struct {
	Requests *services.RequestService
	Limiter  ratelimit.Limiter
}

type appendMessageRequest struct {
	Message string `json:"message"`
}

// canSeeRequest is the visibility rule: staff see everything, clients
// only their own leads.
func canSeeRequest(user *models.User, req *models.Request) bool {
	if models.HasAnyRole(user.Role, models.AdminRoles) {
		return true
	}
	return req.ClientID == user.ID
}

// Create handles POST /api/requests
// @Summary Submit a lead
// @Description Create an estimate request or book a consultation
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body services.CreateRequestInput true "Lead payload"
// @Success 201 {object} models.Request
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 429 {object} utils.ErrorResponseStruct
// @Router /requests [post]
// @Security BearerAuth
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	user := currentUser(c)
	key := fmt.Sprintf("request:%s:%s", user.ID, clientIP(c))
	if !checkRateLimit(c, h.Limiter, key, 10, time.Minute) {
		return nil
	}

	var in services.CreateRequestInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "بدنه درخواست نامعتبر است.", fiber.StatusBadRequest, "createRequest")
	}

	created, err := h.Requests.Create(c.Context(), user, &in)
	if err != nil {
		return serviceError(c, err, "createRequest")
	}
	return utils.SuccessResponse(c, created, fiber.StatusCreated)
}

// ListMine handles GET /api/requests
// @Summary List own leads
// @Description List the signed-in client's leads, newest first
// @Tags Requests
// @Produce json
// @Success 200 {array} models.Request
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /requests [get]
// @Security BearerAuth
func (h *RequestHandler) ListMine(c *fiber.Ctx) error {
	reqs, err := h.Requests.ListForClient(c.Context(), currentUser(c).ID)
	if err != nil {
		return serviceError(c, err, "listRequests")
	}
	return utils.SuccessResponse(c, reqs, fiber.StatusOK)
}

// ListAll handles GET /api/admin/requests
// @Summary List all leads
// @Description List every lead for the back office, newest first
// @Tags Requests
// @Produce json
// @Param limit query int false "Max leads to return"
// @Success 200 {array} models.Request
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/requests [get]
// @Security BearerAuth
func (h *RequestHandler) ListAll(c *fiber.Ctx) error {
	reqs, err := h.Requests.ListAll(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return serviceError(c, err, "listAllRequests")
	}
	return utils.SuccessResponse(c, reqs, fiber.StatusOK)
}

// Get handles GET /api/requests/:id
// @Summary Lead detail
// @Description Full lead with conversation, files, notes and estimate
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} models.Request
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /requests/{id} [get]
// @Security BearerAuth
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	req, err := h.Requests.GetDetailed(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "getRequest")
	}

	user := currentUser(c)
	if !canSeeRequest(user, req) {
		// Invisible, not forbidden: do not confirm the lead exists.
		return utils.NotFoundResponse(c, "موردی یافت نشد")
	}

	// Staff-only sub-records are stripped for clients.
	if !models.HasAnyRole(user.Role, models.AdminRoles) {
		req.Notes = nil
	}
	return utils.SuccessResponse(c, req, fiber.StatusOK)
}

// UpdateStatus handles PATCH /api/admin/requests/:id/status
// @Summary Update lead status
// @Description Apply a staff status/assignment transition with an audit note
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body services.UpdateStatusInput true "Transition payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/requests/{id}/status [patch]
// @Security BearerAuth
func (h *RequestHandler) UpdateStatus(c *fiber.Ctx) error {
	var in services.UpdateStatusInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "بدنه درخواست نامعتبر است.", fiber.StatusBadRequest, "updateStatus")
	}

	err := h.Requests.UpdateStatus(c.Context(), currentUser(c).ID, c.Params("id"), &in)
	if err != nil {
		return serviceError(c, err, "updateStatus")
	}
	return utils.SuccessResponse(c, fiber.Map{"id": c.Params("id")}, fiber.StatusOK)
}

// AppendMessage handles POST /api/requests/:id/messages
// @Summary Post a conversation message
// @Description Append one message to the lead's client<->staff thread
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body appendMessageRequest true "Message text"
// @Success 201 {object} models.RequestMessage
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /requests/{id}/messages [post]
// @Security BearerAuth
func (h *RequestHandler) AppendMessage(c *fiber.Ctx) error {
	req, err := h.Requests.Get(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err, "appendMessage")
	}

	user := currentUser(c)
	if !canSeeRequest(user, req) {
		return utils.NotFoundResponse(c, "موردی یافت نشد")
	}

	var in appendMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "بدنه درخواست نامعتبر است.", fiber.StatusBadRequest, "appendMessage")
	}

	msg, err := h.Requests.AppendMessage(c.Context(), req.ID, user.ID, in.Message)
	if err != nil {
		return serviceError(c, err, "appendMessage")
	}
	return utils.SuccessResponse(c, msg, fiber.StatusCreated)
}

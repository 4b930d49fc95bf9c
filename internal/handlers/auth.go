package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/ratelimit"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/utils"
)

// AuthHandler handles account routes
type AuthHandler struct {
	Auth    *services.AuthService
	Limiter ratelimit.Limiter
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
// @Summary Register a client account
// @Description Create a client account and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body services.RegisterInput true "Signup payload"
// @Success 201 {object} services.Session
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 429 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	if !checkRateLimit(c, h.Limiter, "register:"+clientIP(c), 5, time.Minute) {
		return nil
	}

	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "بدنه درخواست نامعتبر است.", fiber.StatusBadRequest, "register")
	}

	session, err := h.Auth.Register(c.Context(), &in)
	if err != nil {
		return serviceError(c, err, "register")
	}
	return utils.SuccessResponse(c, session, fiber.StatusCreated)
}

// SignIn handles POST /api/auth/signin
// @Summary Sign in
// @Description Verify credentials and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body signInRequest true "Credentials"
// @Success 200 {object} services.Session
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 429 {object} utils.ErrorResponseStruct
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	if !checkRateLimit(c, h.Limiter, "signin:"+clientIP(c), 10, time.Minute) {
		return nil
	}

	var in signInRequest
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "بدنه درخواست نامعتبر است.", fiber.StatusBadRequest, "signIn")
	}

	session, err := h.Auth.SignIn(c.Context(), in.Email, in.Password)
	if err != nil {
		return serviceError(c, err, "signIn")
	}
	return utils.SuccessResponse(c, session, fiber.StatusOK)
}

// Me handles GET /api/auth/me
// @Summary Current account
// @Description Return the account behind the session token
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/me [get]
// @Security BearerAuth
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, currentUser(c), fiber.StatusOK)
}

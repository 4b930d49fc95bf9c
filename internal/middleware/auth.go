package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/types"
)

const userLocalKey = "user"

// RequireUser validates the bearer session token and loads the account
// into the request context. Any signed-in role passes.
func RequireUser(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c, authService)
		if err != nil {
			return err
		}
		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// RequireRoles validates the session and additionally checks the account
// role against the allowed set.
func RequireRoles(authService *services.AuthService, allowed []models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c, authService)
		if err != nil {
			return err
		}
		if !models.HasAnyRole(user.Role, allowed) {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "دسترسی غیرمجاز",
				Type:    "authorization.role",
			}
		}
		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// authenticate resolves the bearer token to a live account. Token claims
// alone are not trusted for role checks; the account row is reloaded so a
// role change takes effect before the token expires.
func authenticate(c *fiber.Ctx, authService *services.AuthService) (*models.User, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "نشست معتبر یافت نشد",
			Type:    "authorization.token",
		}
	}

	claims, err := authService.JWT.ValidateToken(token)
	if err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "نشست نامعتبر یا منقضی شده است",
			Type:    "authorization.token",
		}
	}

	user, err := authService.GetUser(c.Context(), claims.Subject)
	if err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "حساب کاربری یافت نشد",
			Type:    "authorization.token",
		}
	}
	return user, nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	// Cookie fallback for browser sessions.
	return c.Cookies("forma_session")
}

// CurrentUser returns the account loaded by RequireUser/RequireRoles.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}

// RequireCronSecret guards the scheduler endpoints with a shared bearer
// secret. An empty secret leaves the endpoint open, which config.Load
// only permits outside production.
func RequireCronSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		if bearerToken(c) != secret {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "invalid cron secret",
				Type:    "authorization.cron",
			}
		}
		return c.Next()
	}
}

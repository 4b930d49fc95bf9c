package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/forma-studio/forma-portal/internal/middleware"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/ratelimit"
	"github.com/forma-studio/forma-portal/internal/services"
	"github.com/forma-studio/forma-portal/internal/utils"
)

// currentUser returns the account the auth middleware loaded.
func currentUser(c *fiber.Ctx) *models.User {
	return middleware.CurrentUser(c)
}

// serviceError translates a service-layer error into the wire response.
// Every handler funnels non-nil service errors through here so the status
// contract lives in one place.
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		return utils.ErrorResponse(c, validation.Message, fiber.StatusBadRequest, errorType)
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, "موردی یافت نشد")
	case errors.Is(err, services.ErrForbidden):
		return utils.ErrorResponse(c, "دسترسی غیرمجاز", fiber.StatusForbidden, errorType)
	case errors.Is(err, services.ErrSlotUnavailable):
		return utils.ErrorResponse(c, "این زمان دیگر در دسترس نیست. لطفا زمان دیگری انتخاب کنید.", fiber.StatusConflict, errorType)
	case errors.Is(err, services.ErrSlotBooked):
		return utils.ErrorResponse(c, "زمان رزروشده قابل حذف نیست.", fiber.StatusConflict, errorType)
	case errors.Is(err, services.ErrEmailTaken):
		return utils.ErrorResponse(c, "این ایمیل قبلا ثبت شده است.", fiber.StatusConflict, errorType)
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.ErrorResponse(c, "ایمیل یا رمز عبور اشتباه است.", fiber.StatusUnauthorized, errorType)
	default:
		log.Printf("%s: %v", errorType, err)
		return utils.ErrorResponse(c, "خطای داخلی سرور", fiber.StatusInternalServerError, errorType)
	}
}

// clientIP prefers the first X-Forwarded-For hop set by the reverse proxy.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return c.IP()
}

// checkRateLimit applies limiter to key; a nil limiter means rate
// limiting is disabled. On rejection it writes the 429 with Retry-After
// and returns false.
func checkRateLimit(c *fiber.Ctx, limiter ratelimit.Limiter, key string, max int, window time.Duration) bool {
	if limiter == nil {
		return true
	}
	res := limiter.Check(key, max, window)
	if res.OK {
		return true
	}
	seconds := int(res.RetryAfter.Seconds()) + 1
	c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", seconds))
	_ = utils.ErrorResponse(c, "درخواست‌های شما بیش از حد مجاز است. کمی بعد دوباره تلاش کنید.", fiber.StatusTooManyRequests, "rateLimit")
	return false
}

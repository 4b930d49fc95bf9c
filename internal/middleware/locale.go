package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocaleMiddleware resolves the response locale from the X-Locale header
// or Accept-Language and stores it in context. Persian is the default;
// English is the only alternative the site ships.
func LocaleMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := strings.ToLower(c.Get("X-Locale"))
		if locale == "" && strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderAcceptLanguage)), "en") {
			locale = "en"
		}
		if locale != "en" {
			locale = "fa"
		}

		c.Locals("locale", locale)
		return c.Next()
	}
}

// Locale returns the locale resolved by LocaleMiddleware, defaulting to
// Persian when the middleware did not run.
func Locale(c *fiber.Ctx) string {
	if locale, ok := c.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	return "fa"
}

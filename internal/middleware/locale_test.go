package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestLocaleMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(LocaleMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(Locale(c))
	})

	cases := []struct {
		header string
		value  string
		want   string
	}{
		{"", "", "fa"},
		{"X-Locale", "en", "en"},
		{"X-Locale", "fr", "fa"},
		{"Accept-Language", "en-US,en;q=0.9", "en"},
		{"Accept-Language", "fa-IR", "fa"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set(tc.header, tc.value)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != tc.want {
			t.Errorf("%s=%s: locale = %s, want %s", tc.header, tc.value, body, tc.want)
		}
	}
}

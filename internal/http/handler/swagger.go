package handler

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/swaggo/swag"
)

// Swagger serves the API docs with the host and scheme of the current request,
// falling back to fallbackHost when the request carries no Host header.
// spec is shared, so its rewrite and the render happen under one lock.
func Swagger(spec *swag.Spec, fallbackHost string) fiber.Handler {
	var mu sync.Mutex

	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		host := c.Get("Host")
		if host == "" {
			host = fallbackHost
		}

		mu.Lock()
		defer mu.Unlock()
		spec.Host = host
		spec.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	}
}

package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"defiquiz/internal/manifest"
)

// FarcasterManifest serves the Mini App manifest, or the default one when the
// file cannot be read. Only the file-backed response is cacheable.
func FarcasterManifest(src *manifest.Source) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")

		raw, err := src.Load()
		if err != nil {
			slog.WarnContext(c.UserContext(), "serving default farcaster manifest",
				"component", "manifest",
				"request_id", requestIDFromCtx(c),
				"error", err,
			)
			return c.JSON(src.Fallback())
		}

		c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(raw)
	}
}

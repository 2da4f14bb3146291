package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"defiquiz/internal/manifest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFarcasterManifest(t *testing.T) {
	dir := t.TempDir()

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(dir, "farcaster.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"accountAssociation":{"header":"h"}}`), 0o644))

		app := fiber.New()
		app.Get("/.well-known/farcaster.json", FarcasterManifest(manifest.NewSource(path, "https://example.com")))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/.well-known/farcaster.json", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
		body := decode[map[string]any](t, resp)
		assert.Contains(t, body, "accountAssociation")
	})

	t.Run("fallback", func(t *testing.T) {
		app := fiber.New()
		app.Get("/.well-known/farcaster.json", FarcasterManifest(manifest.NewSource(filepath.Join(dir, "missing.json"), "https://example.com")))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/.well-known/farcaster.json", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Empty(t, resp.Header.Get("Cache-Control"))
		body := decode[map[string]any](t, resp)
		frame := body["frame"].(map[string]any)
		assert.Equal(t, "https://example.com/", frame["homeUrl"])
	})
}

package handler

import (
	"database/sql"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"defiquiz/internal/http/middleware"
	"defiquiz/internal/manifest"
	"defiquiz/internal/service"
)

// Deps are the collaborators the HTTP surface is built from.
// Limiter and Metrics are optional.
type Deps struct {
	DB           *sql.DB
	Quiz         service.QuizService
	Protocols    service.ProtocolService
	Verification service.VerificationService
	Nomi         service.NomiService
	Manifest     *manifest.Source
	AdminSecret  string
	Limiter      *middleware.RateLimiter
	Metrics      http.Handler
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	limit := func(c *fiber.Ctx) error { return c.Next() }
	if d.Limiter != nil {
		limit = d.Limiter.Handler()
	}
	admin := middleware.RequireAdmin(d.AdminSecret)

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics))
	}

	app.Get("/.well-known/farcaster.json", FarcasterManifest(d.Manifest))

	api := app.Group("/api")

	api.Get("/protocols", ListProtocols(d.Protocols, d.AdminSecret))
	api.Post("/protocols", admin, CreateProtocol(d.Protocols))
	api.Post("/protocols/:id/questions", admin, AddQuestion(d.Protocols))

	api.Get("/quiz/questions", GetQuestions(d.Quiz))
	api.Post("/quiz/submit", limit, SubmitQuiz(d.Quiz))
	api.Get("/quiz/results", GetResults(d.Quiz))

	api.Post("/verify-self", limit, VerifySelf(d.Verification))
	api.Get("/verify-self", VerifySelfStatus(d.Verification))
	api.Post("/verify-self/check", CheckVerification(d.Verification))
	api.Get("/verify-self/check", CheckVerification(d.Verification))

	nomiAPI := api.Group("/nomi")
	nomiAPI.Post("/context-upload", NomiContextUpload(d.Nomi))
	nomiAPI.Post("/suggest-question", NomiSuggestQuestion(d.Nomi))
	nomiAPI.Post("/agent/question", NomiAgentQuestion(d.Nomi))
	nomiAPI.Post("/agent/analyze-response", NomiAnalyzeResponse(d.Nomi))
	nomiAPI.Post("/voice/synthesize", NomiVoiceSynthesize(d.Nomi))
}

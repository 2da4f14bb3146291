package handler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"defiquiz/internal/http/middleware"
	"defiquiz/internal/service"
)

func failure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

func logFailure(c *fiber.Ctx, msg string, err error) {
	slog.ErrorContext(c.UserContext(), msg,
		"component", "protocols",
		"request_id", requestIDFromCtx(c),
		"error", err,
	)
}

// ListProtocols lists the catalogue. Requests carrying the admin secret see drafts,
// inactive protocols, secret words and docs.
//
// @Summary  List protocols
// @Tags     protocols
// @Produce  json
// @Param    x-admin-secret header string false "Admin secret"
// @Success  200 {object} map[string]any
// @Router   /api/protocols [get]
func ListProtocols(svc service.ProtocolService, adminSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), middleware.IsAdmin(c, adminSecret))
		if err != nil {
			logFailure(c, "list protocols", err)
			return failure(c, fiber.StatusInternalServerError, "Failed to fetch protocols")
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

// CreateProtocol adds a protocol. Mount behind middleware.RequireAdmin.
//
// @Summary  Create protocol
// @Tags     protocols
// @Accept   json
// @Produce  json
// @Param    x-admin-secret header string true "Admin secret"
// @Param    body body service.CreateProtocolInput true "Protocol"
// @Success  201 {object} map[string]any
// @Failure  400 {object} map[string]any
// @Failure  401 {object} map[string]any
// @Failure  409 {object} map[string]any
// @Router   /api/protocols [post]
func CreateProtocol(svc service.ProtocolService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateProtocolInput
		if err := c.BodyParser(&in); err != nil {
			return failure(c, fiber.StatusBadRequest, "Invalid request data")
		}

		p, err := svc.Create(c.UserContext(), in)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrMissingFields):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":  false,
				"error":    "Missing required fields",
				"required": []string{"id", "name"},
			})
		case errors.Is(err, service.ErrInvalidRequest):
			return failure(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProtocolExists):
			return failure(c, fiber.StatusConflict, "Protocol already exists")
		default:
			logFailure(c, "create protocol", err)
			return failure(c, fiber.StatusInternalServerError, "Failed to create protocol")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"protocol": p,
				"message":  fmt.Sprintf("Protocol %q created successfully", p.Name),
			},
		})
	}
}

// AddQuestion appends a question to a protocol's bank. Mount behind middleware.RequireAdmin.
//
// @Summary  Add question
// @Tags     protocols
// @Accept   json
// @Produce  json
// @Param    x-admin-secret header string true "Admin secret"
// @Param    id path string true "Protocol ID"
// @Param    body body service.QuestionInput true "Question with answers"
// @Success  201 {object} map[string]any
// @Failure  400 {object} map[string]any
// @Failure  404 {object} map[string]any
// @Failure  409 {object} map[string]any
// @Router   /api/protocols/{id}/questions [post]
func AddQuestion(svc service.ProtocolService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.QuestionInput
		if err := c.BodyParser(&in); err != nil {
			return failure(c, fiber.StatusBadRequest, "Invalid request data")
		}

		q, err := svc.AddQuestion(c.UserContext(), c.Params("id"), in)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrProtocolNotFound):
			return failure(c, fiber.StatusNotFound, "Protocol not found")
		case errors.Is(err, service.ErrInvalidRequest):
			return failure(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrQuestionExists):
			return failure(c, fiber.StatusConflict, "Question already exists")
		default:
			logFailure(c, "add question", err)
			return failure(c, fiber.StatusInternalServerError, "Failed to create question")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"question": q},
		})
	}
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"defiquiz/internal/selfid"
	"defiquiz/internal/service"
)

type checkRequest struct {
	UserID string `json:"userId"`
}

// VerifySelf receives the Self app's attestation. It always answers 200; the
// outcome is in the body's status field.
//
// @Summary  Submit Self attestation
// @Tags     verify-self
// @Accept   json
// @Produce  json
// @Param    body body selfid.Attestation true "Attestation"
// @Success  200 {object} service.VerifyResponse
// @Router   /api/verify-self [post]
func VerifySelf(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var a selfid.Attestation
		if err := c.BodyParser(&a); err != nil {
			return c.JSON(service.VerifyResponse{Status: "error", Result: false, Reason: "Invalid request body"})
		}
		return c.JSON(svc.Verify(c.UserContext(), a))
	}
}

// VerifySelfStatus reports that the endpoint is up and which scope it checks.
func VerifySelfStatus(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Self Protocol verification endpoint is active",
			"scope":   svc.Scope(),
		})
	}
}

// CheckVerification is polled by the front-end until the wallet is verified.
// The user ID comes from the JSON body on POST and the userId query on GET.
//
// @Summary  Poll verification
// @Tags     verify-self
// @Accept   json
// @Produce  json
// @Param    userId query string false "Wallet address (GET)"
// @Param    body body checkRequest false "Wallet address (POST)"
// @Success  200 {object} service.CheckResult
// @Failure  400 {object} messagePayload
// @Router   /api/verify-self/check [post]
// @Router   /api/verify-self/check [get]
func CheckVerification(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Query("userId")
		if c.Method() == fiber.MethodPost {
			var req checkRequest
			if err := c.BodyParser(&req); err != nil {
				return writeMessage(c, fiber.StatusBadRequest, "Invalid request data")
			}
			userID = req.UserID
		}

		res, err := svc.Check(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserIDRequired) {
				return writeMessage(c, fiber.StatusBadRequest, "User ID is required")
			}
			return writeInternal(c, "verify-self/check", err)
		}
		return c.JSON(res)
	}
}

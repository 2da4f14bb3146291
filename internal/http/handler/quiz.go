package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"defiquiz/internal/service"
)

// quizError maps quiz service errors onto the route's status codes.
func quizError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrProtocolNotFound):
		return writeMessage(c, fiber.StatusNotFound, "Protocol not found")
	case errors.Is(err, service.ErrNoQuestions):
		return writeMessage(c, fiber.StatusNotFound, "No questions found")
	case errors.Is(err, service.ErrInvalidToken):
		return writeMessage(c, fiber.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, service.ErrAnswerCountMismatch),
		errors.Is(err, service.ErrTooFast),
		errors.Is(err, service.ErrInvalidRequest):
		return writeMessage(c, fiber.StatusBadRequest, err.Error())
	default:
		return writeInternal(c, "quiz", err)
	}
}

// GetQuestions serves a protocol's quiz without correctness or explanations.
//
// @Summary  Quiz questions
// @Tags     quiz
// @Produce  json
// @Param    protocolId query string true "Protocol ID"
// @Success  200 {object} service.QuestionsResult
// @Failure  400 {object} messagePayload
// @Failure  404 {object} messagePayload
// @Router   /api/quiz/questions [get]
func GetQuestions(svc service.QuizService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		protocolID := c.Query("protocolId")
		if protocolID == "" {
			return writeMessage(c, fiber.StatusBadRequest, "protocolId required")
		}

		res, err := svc.Questions(c.UserContext(), protocolID)
		if err != nil {
			return quizError(c, err)
		}
		return c.JSON(res)
	}
}

// SubmitQuiz scores a finished quiz and issues a results token.
//
// @Summary  Submit quiz answers
// @Tags     quiz
// @Accept   json
// @Produce  json
// @Param    body body service.SubmitRequest true "Answers keyed by question ID, times in Unix ms"
// @Success  200 {object} service.SubmitResult
// @Failure  400 {object} messagePayload
// @Failure  404 {object} messagePayload
// @Failure  429 {object} messagePayload
// @Router   /api/quiz/submit [post]
func SubmitQuiz(svc service.QuizService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.SubmitRequest
		if err := c.BodyParser(&req); err != nil {
			return writeMessage(c, fiber.StatusBadRequest, "Invalid request data")
		}

		res, err := svc.Submit(c.UserContext(), req)
		if err != nil {
			return quizError(c, err)
		}
		return c.JSON(res)
	}
}

// GetResults redeems a results token. The secret word is only present when passed.
//
// @Summary  Quiz results
// @Tags     quiz
// @Produce  json
// @Param    token query string true "Results token"
// @Success  200 {object} service.ResultsResult
// @Failure  400 {object} messagePayload
// @Failure  401 {object} messagePayload
// @Router   /api/quiz/results [get]
func GetResults(svc service.QuizService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			return writeMessage(c, fiber.StatusBadRequest, "Token required")
		}

		res, err := svc.Results(c.UserContext(), token)
		if err != nil {
			return quizError(c, err)
		}
		return c.JSON(res)
	}
}

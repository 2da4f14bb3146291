package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"defiquiz/internal/nomi"
	"defiquiz/internal/service"
)

type contextUploadRequest struct {
	ProtocolID string `json:"protocolId"`
	MaxWords   int    `json:"maxWords"`
}

type suggestQuestionRequest struct {
	ProtocolID string `json:"protocolId"`
	Topic      string `json:"topic"`
}

type synthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// nomiError maps catalogue and validation errors before falling back to the
// upstream error taxonomy.
func nomiError(c *fiber.Ctx, component string, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrNoDocs):
		return writeMessage(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProtocolNotFound):
		return writeMessage(c, fiber.StatusNotFound, "Protocol not found")
	default:
		return writeNomiError(c, component, err)
	}
}

// NomiContextUpload uploads a protocol's docs and returns the context ID and brief.
//
// @Summary  Upload protocol context
// @Tags     nomi
// @Accept   json
// @Produce  json
// @Param    body body contextUploadRequest true "Protocol and brief length"
// @Success  200 {object} map[string]any
// @Failure  400,404,502,503,504 {object} messagePayload
// @Router   /api/nomi/context-upload [post]
func NomiContextUpload(svc service.NomiService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req contextUploadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeMessage(c, fiber.StatusBadRequest, "Invalid request data")
		}

		res, err := svc.ContextUpload(c.UserContext(), req.ProtocolID, req.MaxWords)
		if err != nil {
			return nomiError(c, "nomi context-upload", err)
		}
		return c.JSON(fiber.Map{"data": res})
	}
}

// NomiSuggestQuestion generates one question about a protocol.
//
// @Summary  Suggest a question
// @Tags     nomi
// @Accept   json
// @Produce  json
// @Param    body body suggestQuestionRequest true "Protocol and optional topic"
// @Success  200 {object} map[string]any
// @Failure  400,404,502,503,504 {object} messagePayload
// @Router   /api/nomi/suggest-question [post]
func NomiSuggestQuestion(svc service.NomiService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req suggestQuestionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeMessage(c, fiber.StatusBadRequest, "Invalid request data")
		}

		res, err := svc.SuggestQuestion(c.UserContext(), req.ProtocolID, req.Topic)
		if err != nil {
			return nomiError(c, "nomi suggest-question", err)
		}
		return c.JSON(fiber.Map{"data": res})
	}
}

// NomiAgentQuestion asks the agent for a spoken question about an uploaded context.
//
// @Summary  Agent question
// @Tags     nomi
// @Accept   json
// @Produce  json
// @Param    body body nomi.AgentQuestionRequest true "Context and session"
// @Success  200 {object} nomi.AgentQuestionResponse
// @Failure  400,502,503,504 {object} messagePayload
// @Router   /api/nomi/agent/question [post]
func NomiAgentQuestion(svc service.NomiService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req nomi.AgentQuestionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeMessage(c, fiber.StatusBadRequest, "Invalid request data")
		}

		res, err := svc.AgentQuestion(c.UserContext(), req)
		if err != nil {
			return nomiError(c, "nomi agent/question", err)
		}
		return c.JSON(res)
	}
}

// NomiAnalyzeResponse forwards a recorded answer (multipart field "audio") for scoring.
//
// @Summary  Analyze spoken answer
// @Tags     nomi
// @Accept   mpfd
// @Produce  json
// @Param    audio formData file true "Recorded answer"
// @Param    contextId formData string true "Context ID"
// @Param    sessionId formData string false "Session ID"
// @Param    originalQuestion formData string true "Question that was asked"
// @Param    originalQuestionId formData string false "Question ID"
// @Success  200 {object} nomi.AnalyzeResponseResult
// @Failure  400,502,503,504 {object} messagePayload
// @Router   /api/nomi/agent/analyze-response [post]
func NomiAnalyzeResponse(svc service.NomiService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("audio")
		if err != nil || fh.Size == 0 {
			return writeMessage(c, fiber.StatusBadRequest, "audio is required and must be a non-empty file")
		}

		f, err := fh.Open()
		if err != nil {
			return writeMessage(c, fiber.StatusBadRequest, "cannot open uploaded audio")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		res, err := svc.AnalyzeResponse(c.UserContext(), nomi.AnalyzeRequest{
			Audio:              f,
			AudioFilename:      fh.Filename,
			AudioContentType:   ct,
			ContextID:          c.FormValue("contextId"),
			SessionID:          c.FormValue("sessionId"),
			OriginalQuestion:   c.FormValue("originalQuestion"),
			OriginalQuestionID: c.FormValue("originalQuestionId"),
		})
		if err != nil {
			return nomiError(c, "nomi agent/analyze-response", err)
		}
		return c.JSON(res)
	}
}

// NomiVoiceSynthesize returns MP3 audio for the given text.
//
// @Summary  Synthesize speech
// @Tags     nomi
// @Accept   json
// @Produce  audio/mpeg
// @Param    body body synthesizeRequest true "Text and optional language (default es-MX)"
// @Success  200 {file} binary
// @Failure  400,502,503,504 {object} messagePayload
// @Router   /api/nomi/voice/synthesize [post]
func NomiVoiceSynthesize(svc service.NomiService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req synthesizeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeMessage(c, fiber.StatusBadRequest, "Invalid request data")
		}

		audio, err := svc.Synthesize(c.UserContext(), req.Text, req.Language)
		if err != nil {
			return nomiError(c, "nomi voice/synthesize", err)
		}

		c.Set(fiber.HeaderContentType, "audio/mpeg")
		c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
		return c.Send(audio)
	}
}

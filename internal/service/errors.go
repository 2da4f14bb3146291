package service

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP statuses;
// wrapped messages are safe to show to callers.
var (
	ErrInvalidRequest      = errors.New("invalid request data")
	ErrProtocolNotFound    = errors.New("protocol not found")
	ErrNoQuestions         = errors.New("no questions found")
	ErrAnswerCountMismatch = errors.New("not all questions were answered")
	ErrTooFast             = errors.New("quiz completed too quickly, please try again")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrProtocolExists      = errors.New("protocol already exists")
	ErrQuestionExists      = errors.New("question or answer id already exists")
	ErrMissingFields       = errors.New("missing required fields")
	ErrUserIDRequired      = errors.New("user ID is required")
	ErrNoDocs              = errors.New("protocol has no documentation or description")
)

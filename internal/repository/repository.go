// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import (
	"context"
	"errors"

	"defiquiz/internal/model"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict is returned when a row with the same primary key already exists.
	ErrConflict = errors.New("repository: already exists")
)

// ProtocolRepository defines data access for protocols using SQL queries only.
// No business logic here, strictly persistence operations.
type ProtocolRepository interface {
	// List returns protocols ordered for display together with their question counts.
	// When includeHidden is false only public, active protocols are returned.
	List(ctx context.Context, includeHidden bool) ([]model.ProtocolWithCount, error)

	// FindByID returns a protocol by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Protocol, error)

	// Create inserts a new protocol. It returns ErrConflict when the ID is taken.
	Create(ctx context.Context, p *model.Protocol) (*model.Protocol, error)
}

// QuestionRepository defines data access for the question bank.
type QuestionRepository interface {
	// ListByProtocol returns the protocol's questions with their answers, in display order.
	ListByProtocol(ctx context.Context, protocolID string) ([]model.Question, error)

	// Create inserts a question and its answers atomically. It returns ErrConflict
	// when the question or an answer ID is taken.
	Create(ctx context.Context, q *model.Question) error
}

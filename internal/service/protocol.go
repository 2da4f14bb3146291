package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"defiquiz/internal/model"
	"defiquiz/internal/repository"
)

// ProtocolList is the protocol catalogue with question counts.
type ProtocolList struct {
	Protocols []model.ProtocolWithCount `json:"protocols"`
	Count     int                       `json:"count"`
}

// CreateProtocolInput is an admin request for a new protocol.
// Nil Active and OrderIndex select true and 0.
type CreateProtocolInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Docs        string `json:"docs"`
	LogoURL     string `json:"logoUrl"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	SecretWord  string `json:"secretWord"`
	Status      string `json:"status"`
	Active      *bool  `json:"active"`
	OrderIndex  *int   `json:"orderIndex"`
}

// QuestionInput is an admin request for a new question with its answers.
type QuestionInput struct {
	ID          string         `json:"id"`
	Text        string         `json:"text"`
	Category    string         `json:"category"`
	Difficulty  string         `json:"difficulty"`
	Explanation string         `json:"explanation"`
	Answers     []model.Answer `json:"answers"`
}

// ProtocolService manages the protocol catalogue and its question bank.
type ProtocolService interface {
	// List returns public, active protocols, or every protocol for admins.
	// Secret words and full docs are only included for admins.
	List(ctx context.Context, admin bool) (*ProtocolList, error)

	// Create adds a protocol. The ID is lower-cased.
	Create(ctx context.Context, in CreateProtocolInput) (*model.Protocol, error)

	// AddQuestion appends a question to an existing protocol's bank.
	AddQuestion(ctx context.Context, protocolID string, in QuestionInput) (*model.Question, error)
}

type protocolService struct {
	protocols repository.ProtocolRepository
	questions repository.QuestionRepository
}

// NewProtocolService constructs a ProtocolService.
func NewProtocolService(protocols repository.ProtocolRepository, questions repository.QuestionRepository) ProtocolService {
	return &protocolService{protocols: protocols, questions: questions}
}

func (s *protocolService) List(ctx context.Context, admin bool) (*ProtocolList, error) {
	items, err := s.protocols.List(ctx, admin)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ProtocolWithCount{}
	}

	if !admin {
		for i := range items {
			items[i].SecretWord = ""
			items[i].Docs = ""
		}
	}
	return &ProtocolList{Protocols: items, Count: len(items)}, nil
}

func (s *protocolService) Create(ctx context.Context, in CreateProtocolInput) (*model.Protocol, error) {
	id := strings.ToLower(strings.TrimSpace(in.ID))
	name := strings.TrimSpace(in.Name)
	if id == "" || name == "" {
		return nil, ErrMissingFields
	}

	status := in.Status
	if status == "" {
		status = model.ProtocolStatusPublic
	}
	if status != model.ProtocolStatusPublic && status != model.ProtocolStatusDraft {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrInvalidRequest, model.ProtocolStatusPublic, model.ProtocolStatusDraft)
	}

	p := &model.Protocol{
		ID:          id,
		Name:        name,
		Title:       in.Title,
		Description: in.Description,
		Docs:        in.Docs,
		LogoURL:     in.LogoURL,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		SecretWord:  in.SecretWord,
		Status:      status,
		Active:      true,
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if in.OrderIndex != nil {
		p.OrderIndex = *in.OrderIndex
	}

	created, err := s.protocols.Create(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrProtocolExists
		}
		return nil, err
	}
	return created, nil
}

func (s *protocolService) AddQuestion(ctx context.Context, protocolID string, in QuestionInput) (*model.Question, error) {
	if _, err := s.protocols.FindByID(ctx, protocolID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProtocolNotFound
		}
		return nil, err
	}

	q := model.Question{
		ID:          strings.TrimSpace(in.ID),
		ProtocolID:  protocolID,
		Text:        strings.TrimSpace(in.Text),
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		Explanation: in.Explanation,
		Answers:     in.Answers,
	}
	if q.Difficulty == "" {
		q.Difficulty = model.DifficultyMedium
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, strings.TrimPrefix(err.Error(), model.ErrInvalidQuestion.Error()+": "))
	}

	if err := s.questions.Create(ctx, &q); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrQuestionExists
		}
		return nil, err
	}
	return &q, nil
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"defiquiz/internal/model"
	"defiquiz/internal/repository"
	"defiquiz/internal/store"
)

const (
	// PassingScore is the minimum number of correct answers that reveals the secret word.
	PassingScore = 3
	// TokenTTL is how long a scored submission can be redeemed for results.
	TokenTTL = 10 * time.Minute
	// MinSecondsPerQuestion rejects submissions faster than this many seconds per question.
	MinSecondsPerQuestion = 5

	tokenPrefix = "quiz_token:"
	tokenBytes  = 32
)

// ProtocolSummary is the protocol header returned with quiz questions.
type ProtocolSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// QuestionsResult is the quiz as served to takers, without the answer key.
type QuestionsResult struct {
	Protocol  ProtocolSummary      `json:"protocol"`
	Questions []model.SafeQuestion `json:"questions"`
	Total     int                  `json:"total"`
}

// SubmitRequest is a finished quiz. Times are Unix milliseconds; the minimum
// duration is only enforced when both are present.
type SubmitRequest struct {
	ProtocolID string            `json:"protocolId"`
	Answers    map[string]string `json:"answers"`
	StartTime  *int64            `json:"startTime"`
	EndTime    *int64            `json:"endTime"`
}

// window returns the quiz duration bounds when both are set and non-zero.
func (r SubmitRequest) window() (start, end int64, ok bool) {
	if r.StartTime == nil || r.EndTime == nil || *r.StartTime == 0 || *r.EndTime == 0 {
		return 0, 0, false
	}
	return *r.StartTime, *r.EndTime, true
}

// SubmitResult carries the redeemable token; it never includes the secret word.
type SubmitResult struct {
	Token     string `json:"token"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
	Passed    bool   `json:"passed"`
	ExpiresAt int64  `json:"expiresAt"`
}

// ResultsResult is what a valid token redeems. SecretWord is nil unless passed.
type ResultsResult struct {
	Score        int     `json:"score"`
	Total        int     `json:"total"`
	Passed       bool    `json:"passed"`
	SecretWord   *string `json:"secretWord"`
	ProtocolName string  `json:"protocolName"`
}

// QuizService serves quizzes and scores submissions against the stored answer key.
type QuizService interface {
	// Questions returns a protocol's questions with correctness and explanations stripped.
	Questions(ctx context.Context, protocolID string) (*QuestionsResult, error)

	// Submit scores a quiz server-side and issues a short-lived results token.
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)

	// Results redeems a token. Tokens stay valid until they expire.
	Results(ctx context.Context, token string) (*ResultsResult, error)
}

type quizService struct {
	protocols repository.ProtocolRepository
	questions repository.QuestionRepository
	tokens    *store.JSON[model.QuizToken]
	metrics   *QuizMetrics
	now       func() time.Time
}

// NewQuizService constructs a QuizService. metrics may be nil.
func NewQuizService(protocols repository.ProtocolRepository, questions repository.QuestionRepository, tokens store.Interface, metrics *QuizMetrics) QuizService {
	return &quizService{
		protocols: protocols,
		questions: questions,
		tokens:    &store.JSON[model.QuizToken]{Underlying: tokens, Prefix: tokenPrefix},
		metrics:   metrics,
		now:       time.Now,
	}
}

// load returns the protocol and its non-empty question bank.
func (s *quizService) load(ctx context.Context, protocolID string) (*model.Protocol, []model.Question, error) {
	p, err := s.protocols.FindByID(ctx, protocolID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrProtocolNotFound
		}
		return nil, nil, err
	}

	qs, err := s.questions.ListByProtocol(ctx, protocolID)
	if err != nil {
		return nil, nil, err
	}
	if len(qs) == 0 {
		return nil, nil, ErrNoQuestions
	}
	return p, qs, nil
}

func (s *quizService) Questions(ctx context.Context, protocolID string) (*QuestionsResult, error) {
	protocolID = strings.TrimSpace(protocolID)
	if protocolID == "" {
		return nil, fmt.Errorf("%w: protocolId required", ErrInvalidRequest)
	}

	p, qs, err := s.load(ctx, protocolID)
	if err != nil {
		return nil, err
	}

	safe := make([]model.SafeQuestion, 0, len(qs))
	for _, q := range qs {
		safe = append(safe, q.Safe())
	}

	return &QuestionsResult{
		Protocol:  ProtocolSummary{ID: p.ID, Name: p.Name, Title: p.Title},
		Questions: safe,
		Total:     len(safe),
	}, nil
}

func (s *quizService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	res, err := s.submit(ctx, req)
	if err != nil {
		s.metrics.submission(OutcomeRejected)
		return nil, err
	}
	s.metrics.submission(OutcomeAccepted)
	return res, nil
}

func (s *quizService) submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if req.ProtocolID == "" || req.Answers == nil {
		return nil, ErrInvalidRequest
	}

	_, qs, err := s.load(ctx, req.ProtocolID)
	if err != nil {
		return nil, err
	}

	if len(req.Answers) != len(qs) {
		return nil, ErrAnswerCountMismatch
	}

	score := 0
	for _, q := range qs {
		if q.IsCorrect(req.Answers[q.ID]) {
			score++
		}
	}

	if start, end, ok := req.window(); ok {
		if end-start < int64(len(qs))*MinSecondsPerQuestion*1000 {
			return nil, ErrTooFast
		}
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(TokenTTL).UnixMilli()
	data := model.QuizToken{
		Score:      score,
		Total:      len(qs),
		ProtocolID: req.ProtocolID,
		ExpiresAt:  expiresAt,
	}
	if err := s.tokens.Set(ctx, token, data, TokenTTL); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	return &SubmitResult{
		Token:     token,
		Score:     score,
		Total:     len(qs),
		Passed:    score >= PassingScore,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *quizService) Results(ctx context.Context, token string) (*ResultsResult, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token required", ErrInvalidRequest)
	}

	data, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.metrics.result(OutcomeInvalid)
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load token: %w", err)
	}
	if s.now().UnixMilli() >= data.ExpiresAt {
		_ = s.tokens.Delete(ctx, token)
		s.metrics.result(OutcomeInvalid)
		return nil, ErrInvalidToken
	}

	p, err := s.protocols.FindByID(ctx, data.ProtocolID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProtocolNotFound
		}
		return nil, err
	}

	res := &ResultsResult{
		Score:        data.Score,
		Total:        data.Total,
		Passed:       data.Score >= PassingScore,
		ProtocolName: p.DisplayName(),
	}
	if res.Passed {
		secret := p.SecretWord
		res.SecretWord = &secret
		s.metrics.result(OutcomePassed)
	} else {
		s.metrics.result(OutcomeFailed)
	}
	return res, nil
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

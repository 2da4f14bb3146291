// Package quiz is the client side of a timed multiple-choice quiz: a per-question
// countdown, answer locking, progression and a focus-loss lockout.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"defiquiz/internal/model"
)

// Status is the lifecycle state of a Session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in-progress"
	StatusLocked     Status = "locked"
	StatusCompleted  Status = "completed"
)

// DefaultTimePerQuestion is the countdown each question starts with.
const DefaultTimePerQuestion = 25 * time.Second

var (
	// ErrIntegrityViolation is returned by every mutation after focus was lost.
	ErrIntegrityViolation = errors.New("quiz: integrity violation, quiz is locked")
	ErrNoQuestions        = errors.New("quiz: no questions")
	ErrNotInProgress      = errors.New("quiz: quiz is not in progress")
	ErrAnswerLocked       = errors.New("quiz: answer already locked")
	ErrAnswerNotLocked    = errors.New("quiz: current answer is not locked")
	ErrUnknownAnswer      = errors.New("quiz: answer does not belong to the current question")
)

// Submission is the payload sent to the scoring endpoint. Times are Unix milliseconds.
type Submission struct {
	ProtocolID string            `json:"protocolId"`
	Answers    map[string]string `json:"answers"`
	StartTime  int64             `json:"startTime"`
	EndTime    int64             `json:"endTime"`
}

// Persister keeps a completed quiz for the results flow.
type Persister interface {
	Save(ctx context.Context, s Submission) error
}

// Option configures a Session.
type Option func(*Session)

// WithTimePerQuestion overrides DefaultTimePerQuestion. Values under a second are ignored.
func WithTimePerQuestion(d time.Duration) Option {
	return func(s *Session) {
		if d >= time.Second {
			s.timePerQuestion = int(d / time.Second)
		}
	}
}

// WithPersister saves the submission when the last question is passed.
func WithPersister(p Persister) Option {
	return func(s *Session) { s.persister = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is safe for concurrent use; a Runner ticks it from its own goroutine.
type Session struct {
	mu sync.Mutex

	protocolID      string
	questions       []model.SafeQuestion
	timePerQuestion int
	persister       Persister
	now             func() time.Time

	status        Status
	index         int
	answers       map[string]string
	selected      string
	answerLocked  bool
	timeRemaining int
	startTime     time.Time
	endTime       time.Time
	cheating      bool
}

// New creates an idle session over questions.
func New(protocolID string, questions []model.SafeQuestion, opts ...Option) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	s := &Session{
		protocolID:      protocolID,
		questions:       questions,
		timePerQuestion: int(DefaultTimePerQuestion / time.Second),
		now:             time.Now,
		status:          StatusIdle,
		answers:         map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timeRemaining = s.timePerQuestion

	return s, nil
}

// Start resets the session and begins the first question.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusLocked {
		return ErrIntegrityViolation
	}

	s.index = 0
	s.answers = map[string]string{}
	s.selected = ""
	s.answerLocked = false
	s.timeRemaining = s.timePerQuestion
	s.startTime = s.now()
	s.endTime = time.Time{}
	s.status = StatusInProgress
	return nil
}

// Tick advances the countdown by one second. At zero the current question is
// locked, recording the selection only if there is one. It reports whether
// this tick expired the question.
func (s *Session) Tick() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusLocked {
		return false, ErrIntegrityViolation
	}
	if s.status != StatusInProgress || s.answerLocked {
		return false, nil
	}

	if s.timeRemaining > 1 {
		s.timeRemaining--
		return false, nil
	}

	s.timeRemaining = 0
	s.answerLocked = true
	if s.selected != "" {
		s.answers[s.questions[s.index].ID] = s.selected
	}
	return true, nil
}

// Select marks answerID as the tentative choice. Nothing is recorded until Lock.
func (s *Session) Select(answerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return err
	}
	if err := s.checkAnswer(answerID); err != nil {
		return err
	}

	s.selected = answerID
	return nil
}

// Lock records answerID for the current question and stops its countdown.
func (s *Session) Lock(answerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return err
	}
	if err := s.checkAnswer(answerID); err != nil {
		return err
	}

	s.selected = answerID
	s.answerLocked = true
	s.answers[s.questions[s.index].ID] = answerID
	return nil
}

// Next moves past a locked question. On the last question the quiz completes
// and the submission is handed to the Persister, if any.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()

	if s.status == StatusLocked {
		s.mu.Unlock()
		return ErrIntegrityViolation
	}
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return ErrNotInProgress
	}
	if !s.answerLocked {
		s.mu.Unlock()
		return ErrAnswerNotLocked
	}

	if s.index < len(s.questions)-1 {
		s.index++
		s.selected = ""
		s.answerLocked = false
		s.timeRemaining = s.timePerQuestion
		s.mu.Unlock()
		return nil
	}

	s.status = StatusCompleted
	s.endTime = s.now()
	sub := s.submission()
	p := s.persister
	s.mu.Unlock()

	if p == nil {
		return nil
	}
	if err := p.Save(ctx, sub); err != nil {
		return fmt.Errorf("persist quiz: %w", err)
	}
	return nil
}

// FocusLost locks an in-progress quiz for good. It is a no-op in any other state.
func (s *Session) FocusLost() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return
	}
	s.cheating = true
	s.status = StatusLocked
}

// Submission returns the payload for the scoring endpoint.
func (s *Session) Submission() Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submission()
}

func (s *Session) submission() Submission {
	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	sub := Submission{ProtocolID: s.protocolID, Answers: answers}
	if !s.startTime.IsZero() {
		sub.StartTime = s.startTime.UnixMilli()
	}
	if !s.endTime.IsZero() {
		sub.EndTime = s.endTime.UnixMilli()
	}
	return sub
}

func (s *Session) checkMutable() error {
	switch {
	case s.status == StatusLocked:
		return ErrIntegrityViolation
	case s.status != StatusInProgress:
		return ErrNotInProgress
	case s.answerLocked:
		return ErrAnswerLocked
	}
	return nil
}

func (s *Session) checkAnswer(answerID string) error {
	for _, a := range s.questions[s.index].Answers {
		if a.ID == answerID {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownAnswer, answerID)
}

// State is a point-in-time copy of a Session.
type State struct {
	Status           Status
	Index            int
	Total            int
	Question         model.SafeQuestion
	Selected         string
	AnswerLocked     bool
	TimeRemaining    int
	Answers          map[string]string
	CheatingDetected bool
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	return State{
		Status:           s.status,
		Index:            s.index,
		Total:            len(s.questions),
		Question:         s.questions[s.index],
		Selected:         s.selected,
		AnswerLocked:     s.answerLocked,
		TimeRemaining:    s.timeRemaining,
		Answers:          answers,
		CheatingDetected: s.cheating,
	}
}

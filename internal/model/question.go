package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuestion is returned by Question.Validate.
var ErrInvalidQuestion = errors.New("invalid question")

// Question difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Answer is one choice of a question, including the answer key.
// It must never be serialized to quiz takers; use SafeAnswer.
type Answer struct {
	ID          string `json:"id" yaml:"id"`
	Text        string `json:"text" yaml:"text"`
	IsCorrect   bool   `json:"isCorrect" yaml:"isCorrect"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Question is an authoritative question-bank entry.
type Question struct {
	ID          string   `json:"id" yaml:"id"`
	ProtocolID  string   `json:"protocol" yaml:"protocol"`
	Text        string   `json:"text" yaml:"text"`
	Category    string   `json:"category" yaml:"category"`
	Difficulty  string   `json:"difficulty" yaml:"difficulty"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Answers     []Answer `json:"answers" yaml:"answers"`
}

// SafeAnswer is an answer without correctness or explanation.
type SafeAnswer struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SafeQuestion is what quiz takers receive.
type SafeQuestion struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Category   string       `json:"category"`
	Difficulty string       `json:"difficulty"`
	ProtocolID string       `json:"protocol"`
	Answers    []SafeAnswer `json:"answers"`
}

// Safe strips the answer key and explanations.
func (q Question) Safe() SafeQuestion {
	answers := make([]SafeAnswer, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, SafeAnswer{ID: a.ID, Text: a.Text})
	}
	return SafeQuestion{
		ID:         q.ID,
		Text:       q.Text,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		ProtocolID: q.ProtocolID,
		Answers:    answers,
	}
}

// IsCorrect reports whether answerID is a correct answer of q.
// Unknown answer ids are incorrect.
func (q Question) IsCorrect(answerID string) bool {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return a.IsCorrect
		}
	}
	return false
}

// Validate checks q has an id, text, at least two answers with unique ids,
// and exactly one correct answer.
func (q Question) Validate() error {
	if q.ID == "" || strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: question without id or text", ErrInvalidQuestion)
	}
	if len(q.Answers) < 2 {
		return fmt.Errorf("%w: question %s needs at least two answers", ErrInvalidQuestion, q.ID)
	}

	seen := map[string]bool{}
	correct := 0
	for _, a := range q.Answers {
		if a.ID == "" || seen[a.ID] {
			return fmt.Errorf("%w: question %s has a missing or duplicate answer id", ErrInvalidQuestion, q.ID)
		}
		seen[a.ID] = true
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: question %s has %d correct answers", ErrInvalidQuestion, q.ID, correct)
	}
	return nil
}

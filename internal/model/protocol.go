package model

import "time"

// Protocol visibility states.
const (
	ProtocolStatusPublic = "public"
	ProtocolStatusDraft  = "draft"
)

// Protocol is a DeFi project covered by a quiz.
// Optional text fields use the empty string for "not set".
type Protocol struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Docs        string    `json:"docs,omitempty"`
	LogoURL     string    `json:"logoUrl,omitempty"`
	Category    string    `json:"category,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	SecretWord  string    `json:"secretWord,omitempty"`
	Status      string    `json:"status"`
	Active      bool      `json:"active"`
	OrderIndex  int       `json:"orderIndex"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DisplayName is the title when present, otherwise the name.
func (p Protocol) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// ProtocolWithCount pairs a protocol with the size of its question bank.
type ProtocolWithCount struct {
	Protocol
	QuestionCount int `json:"questionCount"`
}

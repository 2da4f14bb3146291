package nomi

import "io"

// DefaultLanguage is used for voice synthesis when no language is given.
const DefaultLanguage = "es-MX"

// DefaultMaxWords is the brief length requested for quiz contexts.
const DefaultMaxWords = 400

type ContextUploadRequest struct {
	Text     string `json:"text"`
	MaxWords int    `json:"maxWords"`
	TTL      *int   `json:"ttl,omitempty"`
}

type ContextUploadResponse struct {
	ContextID string `json:"contextId"`
	LocalID   string `json:"localId,omitempty"`
	Brief     string `json:"brief"`
	Language  string `json:"language"`
	WordCount *int   `json:"wordCount,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type VoiceSynthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type AgentQuestionRequest struct {
	ContextID string `json:"contextId"`
	SessionID string `json:"sessionId,omitempty"`
	Topic     string `json:"topic,omitempty"`
}

type AgentQuestionResponse struct {
	Question        string   `json:"question"`
	QuestionAudio   string   `json:"questionAudio,omitempty"`
	Language        string   `json:"language"`
	SuggestedTopics []string `json:"suggestedTopics,omitempty"`
	InteractionID   string   `json:"interactionId,omitempty"`
	SessionID       string   `json:"sessionId,omitempty"`
}

// ResponseAnalysis scores a spoken answer; Score is in [0, 1].
type ResponseAnalysis struct {
	Completeness *float64 `json:"completeness,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
	Relevance    *float64 `json:"relevance,omitempty"`
	Score        float64  `json:"score"`
}

type AnalyzeResponseResult struct {
	Analysis      ResponseAnalysis `json:"analysis"`
	Feedback      string           `json:"feedback,omitempty"`
	Suggestions   []string         `json:"suggestions,omitempty"`
	CorrectAnswer string           `json:"correctAnswer,omitempty"`
}

// AnalyzeRequest is sent as multipart/form-data.
type AnalyzeRequest struct {
	Audio              io.Reader
	AudioFilename      string
	AudioContentType   string
	ContextID          string
	SessionID          string
	OriginalQuestion   string
	OriginalQuestionID string
}

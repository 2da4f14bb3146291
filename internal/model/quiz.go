package model

// QuizToken is the server-held result of a scored submission, keyed by an opaque token.
// ExpiresAt is a Unix timestamp in milliseconds.
type QuizToken struct {
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	ProtocolID string `json:"protocolId"`
	ExpiresAt  int64  `json:"expiresAt"`
}

// Verification is a cached identity verification keyed by wallet address.
// Timestamp is a Unix timestamp in milliseconds.
type Verification struct {
	Verified    bool   `json:"verified"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Name        string `json:"name,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

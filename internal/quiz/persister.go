package quiz

import (
	"context"
	"time"

	"defiquiz/internal/store"
)

// StoreKeyPrefix namespaces completed quizzes; the protocol ID completes the key.
const StoreKeyPrefix = "quiz_answers_"

// DefaultRetention is how long a completed quiz is kept for the results flow.
const DefaultRetention = 24 * time.Hour

// StorePersister keeps the latest completed quiz per protocol in a keyed store.
type StorePersister struct {
	json      *store.JSON[Submission]
	retention time.Duration
}

// NewStorePersister wraps s. A non-positive retention selects DefaultRetention.
func NewStorePersister(s store.Interface, retention time.Duration) *StorePersister {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &StorePersister{
		json:      &store.JSON[Submission]{Underlying: s, Prefix: StoreKeyPrefix},
		retention: retention,
	}
}

func (p *StorePersister) Save(ctx context.Context, s Submission) error {
	return p.json.Set(ctx, s.ProtocolID, s, p.retention)
}

// Load returns the completed quiz for protocolID or store.ErrNotFound.
func (p *StorePersister) Load(ctx context.Context, protocolID string) (Submission, error) {
	return p.json.Get(ctx, protocolID)
}

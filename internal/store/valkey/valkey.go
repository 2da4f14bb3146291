package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	valkey "github.com/redis/go-redis/v9"

	"defiquiz/internal/store"
)

// Store implements store.Interface on top of valkey. Expiry is delegated to
// the server's native key TTL.
type Store struct {
	rdb *valkey.Client
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *valkey.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Delete(ctx context.Context, key string) error {
	n, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("can't delete from valkey: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("%w: %q", store.ErrNotFound, key)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, valkey.Nil) {
			return nil, fmt.Errorf("%w: %q", store.ErrNotFound, key)
		}

		return nil, fmt.Errorf("can't fetch from valkey: %w", err)
	}

	return result, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, expiry time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, expiry).Err(); err != nil {
		return fmt.Errorf("can't set %q in valkey: %w", key, err)
	}

	return nil
}

package bbolt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"

	"defiquiz/internal/store"
)

var ErrNotExists = errors.New("bbolt: value does not exist in store")

// Store implements store.Interface backed by bbolt.
//
// Every value lives in its own bucket with two keys: "data" (the raw value)
// and "expiry" (an RFC3339Nano timestamp). Cleanup walks the top-level buckets
// and only reads expiry keys.
//
// bbolt holds an exclusive file lock, so this backend suits a single API
// instance that must keep tokens across restarts.
type Store struct {
	bdb *bbolt.DB
}

// Delete a key from the datastore. If the key does not exist, return an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.bdb.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(key)) == nil {
			return fmt.Errorf("%w: %w: %q", store.ErrNotFound, ErrNotExists, key)
		}

		return tx.DeleteBucket([]byte(key))
	})
}

// Get a value from the datastore. Expired values are reported as not found
// and removed in the background.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var result []byte
	var expired bool

	err := s.bdb.View(func(tx *bbolt.Tx) error {
		itemBucket := tx.Bucket([]byte(key))
		if itemBucket == nil {
			return fmt.Errorf("%w: %q", store.ErrNotFound, key)
		}

		expiryStr := itemBucket.Get([]byte("expiry"))
		if expiryStr == nil {
			return fmt.Errorf("[unexpected] %w: %q (expiry is nil)", store.ErrNotFound, key)
		}

		expiry, err := time.Parse(time.RFC3339Nano, string(expiryStr))
		if err != nil {
			return fmt.Errorf("[unexpected] %w: %w", store.ErrCantDecode, err)
		}

		if time.Now().After(expiry) {
			expired = true
			return fmt.Errorf("%w: %q", store.ErrNotFound, key)
		}

		data := itemBucket.Get([]byte("data"))
		if data == nil {
			return fmt.Errorf("[unexpected] %w: %q (data is nil)", store.ErrNotFound, key)
		}

		result = make([]byte, len(data))
		copy(result, data)
		return nil
	})

	if expired {
		go s.Delete(context.Background(), key)
	}

	if err != nil {
		return nil, err
	}

	return result, nil
}

// Set a value into the store with a given expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, expiry time.Duration) error {
	expires := time.Now().Add(expiry)

	return s.bdb.Update(func(tx *bbolt.Tx) error {
		valueBkt, err := tx.CreateBucketIfNotExists([]byte(key))
		if err != nil {
			return fmt.Errorf("%w: %w: %q (create bucket)", store.ErrCantEncode, err, key)
		}

		if err := valueBkt.Put([]byte("expiry"), []byte(expires.Format(time.RFC3339Nano))); err != nil {
			return fmt.Errorf("%w: %q (expiry)", store.ErrCantEncode, key)
		}

		if err := valueBkt.Put([]byte("data"), value); err != nil {
			return fmt.Errorf("%w: %q (data)", store.ErrCantEncode, key)
		}

		return nil
	})
}

func (s *Store) cleanup() error {
	now := time.Now()

	return s.bdb.Update(func(tx *bbolt.Tx) error {
		var expired [][]byte

		err := tx.ForEach(func(key []byte, valueBkt *bbolt.Bucket) error {
			expiryStr := valueBkt.Get([]byte("expiry"))
			if expiryStr == nil {
				slog.Warn("bbolt cleanup found a value without expiry", "key", string(key))
				return nil
			}

			expiry, err := time.Parse(time.RFC3339Nano, string(expiryStr))
			if err != nil {
				return fmt.Errorf("[unexpected] %w in bucket %q: %w", store.ErrCantDecode, string(key), err)
			}

			if now.After(expiry) {
				expired = append(expired, append([]byte(nil), key...))
			}

			return nil
		})
		if err != nil {
			return err
		}

		for _, key := range expired {
			if err := tx.DeleteBucket(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) cleanupThread(ctx context.Context) {
	t := time.NewTicker(5 * time.Minute)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.bdb.Close(); err != nil {
				slog.Error("can't close bbolt database", "err", err)
			}
			return
		case <-t.C:
			if err := s.cleanup(); err != nil {
				slog.Error("error during bbolt cleanup", "err", err)
			}
		}
	}
}

// Package store keeps autosaved snapshots so an editing session can be
// recovered after a crash.
//
// A [Store] is a plain key/value store of encoded snapshots with an optional
// TTL. Four backends are provided:
//   - file: one file per key under a state directory (the CLI default)
//   - redis: a Redis server, for the HTTP host running behind a load balancer
//   - mongo: a MongoDB collection with a TTL index
//   - none: [NullStore], which stores nothing
//
// Keys are derived with [RecoveryKey] from the document's save target, or
// from its ID while it has none.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Store is a key/value store for snapshot bytes.
type Store interface {
	// Get returns the value for key. A missing or expired key is reported
	// as a miss (false) with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any connection held by the store.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is one of the Backend constants. Empty means file.
	Backend string
	// URL is the connection string for redis ("redis://host:6379/0") and
	// mongo ("mongodb://host:27017").
	URL string
	// Dir is the directory of the file backend.
	Dir string
	// Database and Collection name the mongo collection. They default to
	// "graphpad" and "recovery".
	Database   string
	Collection string
}

// Open connects to the configured backend. Network backends are pinged,
// retrying transient failures with backoff, before Open returns.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		s, err = wrapOpen(NewFileStore(cfg.Dir))
	case BackendRedis:
		s, err = wrapOpen(NewRedisStore(ctx, cfg.URL))
	case BackendMongo:
		s, err = wrapOpen(NewMongoStore(ctx, cfg.URL, cfg.Database, cfg.Collection))
	case BackendNone:
		s = NewNullStore()
	default:
		err = fmt.Errorf("unknown recovery backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// wrapOpen keeps a failed constructor from yielding a non-nil interface
// holding a nil pointer.
func wrapOpen[T Store](s T, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

const keyPrefix = "graphpad:recovery:"

// RecoveryKey returns the key a document's autosave lives under. Documents
// with a save target are keyed by the hash of its absolute path, so reopening
// the same file finds the same entry; unsaved documents use their ID.
func RecoveryKey(path, docID string) string {
	if path == "" {
		return keyPrefix + "doc:" + docID
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return keyPrefix + "path:" + Hash([]byte(path))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the first backoff interval; tests shorten it.
var retryDelay = 500 * time.Millisecond

// RetryWithBackoff retries fn up to 3 times with exponential backoff.
// Only errors wrapped with Retryable will trigger retries.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

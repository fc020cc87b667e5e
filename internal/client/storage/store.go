// Package storage is the credential store: the only durable client state.
// Values are kept as JSON under a fixed set of keys. Reads never fail
// loudly; anything absent, undefined, null or undecodable reads as "no
// value" and is logged.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/memberportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memberportal/internal/logging"
)

// Key names a stored session value.
type Key string

const (
	KeyToken          Key = "userToken"
	KeyUserData       Key = "userData"
	KeyIsUserLoggedIn Key = "isUserLoggedIn"
	KeyDeviceID       Key = "deviceId"
	KeyFCMToken       Key = "fcmToken"
)

// Store serializes every access to the underlying repository through one
// mutex, so a single call never interleaves with another.
type Store struct {
	mu   sync.Mutex
	repo metadata.Repository
	log  logging.Logger
}

func New(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log.With("component", "credential_store")}
}

// Set stores value as JSON under key.
func (s *Store) Set(ctx context.Context, key Key, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Set(ctx, string(key), b)
}

// SetMany stores all values or none of them.
func (s *Store) SetMany(ctx context.Context, values map[Key]any) error {
	encoded := make(map[string][]byte, len(values))
	for k, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		encoded[string(k)] = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.SetMany(ctx, encoded)
}

// Get decodes the value stored under key into dst and reports whether a
// value was present.
func (s *Store) Get(ctx context.Context, key Key, dst any) bool {
	s.mu.Lock()
	raw, err := s.repo.Get(ctx, string(key))
	s.mu.Unlock()

	if err != nil {
		s.log.Error(ctx, "read failed", "key", key, "error", err)
		return false
	}
	if isAbsent(raw) {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn(ctx, "malformed value", "key", key, "error", err)
		return false
	}
	return true
}

// Has reports whether key holds a decodable, non-null value.
func (s *Store) Has(ctx context.Context, key Key) bool {
	var raw json.RawMessage
	return s.Get(ctx, key, &raw)
}

func (s *Store) ClearKey(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Delete(ctx, string(key))
}

// ClearAll wipes every stored value.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.log.Debug(ctx, "store cleared")
	return nil
}

func isAbsent(raw []byte) bool {
	v := bytes.TrimSpace(raw)
	return len(v) == 0 || bytes.Equal(v, []byte("undefined")) || bytes.Equal(v, []byte("null"))
}

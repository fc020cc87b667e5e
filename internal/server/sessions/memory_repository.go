package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/common"
)

type InMemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{sessions: make(map[string]Session), now: time.Now}
}

func (r *InMemoryRepository) Create(_ context.Context, userID string, tokenID string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[tokenID] = Session{UserID: userID, TokenID: tokenID, Expires: r.now().Add(validity)}
	return nil
}

// Find returns common.ErrorNotFound for unknown and for expired sessions;
// expired ones are dropped on the way.
func (r *InMemoryRepository) Find(_ context.Context, tokenID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[tokenID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !s.Expires.After(r.now()) {
		delete(r.sessions, tokenID)
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[tokenID]; !ok {
		return common.ErrorNotFound
	}
	delete(r.sessions, tokenID)
	return nil
}

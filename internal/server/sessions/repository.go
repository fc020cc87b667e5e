// Package sessions tracks which issued tokens are still live on the
// server. A token whose session was deleted is rejected even before it
// expires.
package sessions

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, userID string, tokenID string, validity time.Duration) error
	Find(ctx context.Context, tokenID string) (*Session, error)
	Delete(ctx context.Context, tokenID string) error
}

type Session struct {
	UserID  string
	TokenID string
	Expires time.Time
}

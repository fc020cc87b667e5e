package users

import (
	"context"
)

type Repository interface {
	// GetOrCreateByMobile returns the member registered under mobile,
	// registering one on first login.
	GetOrCreateByMobile(ctx context.Context, mobile int64, fcm string) (*Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
}

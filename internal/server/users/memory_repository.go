package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/memberportal/internal/common"
)

type InMemoryRepository struct {
	mu       sync.RWMutex
	byID     map[string]*Member
	byMobile map[int64]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:     make(map[string]*Member),
		byMobile: make(map[int64]string),
	}
}

func (r *InMemoryRepository) GetOrCreateByMobile(_ context.Context, mobile int64, fcm string) (*Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byMobile[mobile]; ok {
		m := r.byID[id]
		if fcm != "" {
			m.FCM = fcm
		}
		c := *m
		return &c, nil
	}

	m := &Member{
		ID:           uuid.NewString(),
		MobileNumber: mobile,
		Name:         fmt.Sprintf("Member %d", mobile%10000),
		FCM:          fcm,
		CreatedAt:    time.Now().UTC(),
	}
	r.byID[m.ID] = m
	r.byMobile[mobile] = m.ID

	c := *m
	return &c, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

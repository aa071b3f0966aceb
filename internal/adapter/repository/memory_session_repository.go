package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"greentask/internal/domain/entity"
	"greentask/internal/domain/repository"
	"greentask/pkg/errors"
)

// memorySessionRepository keeps session metadata for the lifetime of the
// process. Profiles are never persisted, so neither are sessions.
type memorySessionRepository struct {
	mu          sync.RWMutex
	byID        map[string]*entity.Session
	byPublicKey map[string]string
}

func NewMemorySessionRepository() repository.SessionRepository {
	return &memorySessionRepository{
		byID:        make(map[string]*entity.Session),
		byPublicKey: make(map[string]string),
	}
}

func (r *memorySessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if session.PublicKey == "" {
		return errors.BadRequest("Session requires a public key", nil)
	}
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	if session.ConnectedAt.IsZero() {
		session.ConnectedAt = now
	}
	if session.LastSeen.IsZero() {
		session.LastSeen = session.ConnectedAt
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byPublicKey[session.PublicKey]; exists {
		return errors.BadRequest("Wallet already has an active session", nil)
	}
	stored := *session
	r.byID[stored.ID] = &stored
	r.byPublicKey[stored.PublicKey] = stored.ID
	return nil
}

func (r *memorySessionRepository) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.byID[id]
	if !ok {
		return nil, errors.NotFound("Session", nil)
	}
	out := *session
	return &out, nil
}

func (r *memorySessionRepository) GetByPublicKey(ctx context.Context, publicKey string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPublicKey[publicKey]
	if !ok {
		return nil, errors.NotFound("Session", nil)
	}
	out := *r.byID[id]
	return &out, nil
}

// List returns sessions ordered by connection time, oldest first.
func (r *memorySessionRepository) List(ctx context.Context, limit, offset int) ([]*entity.Session, int64, error) {
	r.mu.RLock()
	all := make([]*entity.Session, 0, len(r.byID))
	for _, s := range r.byID {
		out := *s
		all = append(all, &out)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].ConnectedAt.Equal(all[j].ConnectedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].ConnectedAt.Before(all[j].ConnectedAt)
	})

	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *memorySessionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byID[id]
	if !ok {
		return errors.NotFound("Session", nil)
	}
	if at.After(session.LastSeen) {
		session.LastSeen = at
	}
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byID[id]
	if !ok {
		return errors.NotFound("Session", nil)
	}
	delete(r.byPublicKey, session.PublicKey)
	delete(r.byID, id)
	return nil
}

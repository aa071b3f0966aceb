package repository

import (
	"context"
	"time"

	"greentask/internal/domain/entity"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	GetByPublicKey(ctx context.Context, publicKey string) (*entity.Session, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Session, int64, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

package repository

import (
	"context"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
)

// TelegramUserRepository is the Entity Store. Implementations stamp
// Created/Updated themselves and map storage errors onto entity.ErrNotFound,
// entity.ErrConflict and *entity.ValidationError.
type TelegramUserRepository interface {
	Create(ctx context.Context, user *entity.TelegramUser) error
	Get(ctx context.Context, telegramID int64) (*entity.TelegramUser, error)
	Update(ctx context.Context, telegramID int64, patch entity.Patch) (*entity.TelegramUser, error)
	Delete(ctx context.Context, telegramID int64) error

	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit, offset int) ([]*entity.TelegramUser, error)
	Ping(ctx context.Context) error
}

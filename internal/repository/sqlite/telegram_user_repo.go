package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/internal/domain/repository"
	"gorm.io/gorm"
)

type TelegramUserRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTelegramUserRepository(db *gorm.DB) *TelegramUserRepository {
	return &TelegramUserRepository{db: db, now: entity.Now}
}

var _ repository.TelegramUserRepository = (*TelegramUserRepository)(nil)

// SetClock replaces the time source used for Created/Updated.
func (r *TelegramUserRepository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *TelegramUserRepository) Create(ctx context.Context, user *entity.TelegramUser) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid telegram user: %w", err)
	}

	candidate := user.Clone()
	candidate.StampCreated(r.now())

	if err := r.db.WithContext(ctx).Create(toModel(candidate)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create telegram user %d: %w", user.TelegramID, entity.ErrConflict)
		}
		return fmt.Errorf("create telegram user: %w", err)
	}

	*user = *candidate
	return nil
}

func (r *TelegramUserRepository) Get(ctx context.Context, telegramID int64) (*entity.TelegramUser, error) {
	m, err := r.find(r.db.WithContext(ctx), telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get telegram user %d: %w", telegramID, err)
	}
	return m.toEntity(), nil
}

func (r *TelegramUserRepository) Update(ctx context.Context, telegramID int64, patch entity.Patch) (*entity.TelegramUser, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telegram user patch: %w", err)
	}

	var updated *entity.TelegramUser
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := r.find(tx, telegramID)
		if err != nil {
			return err
		}

		user := m.toEntity()
		user.Apply(patch)
		user.StampUpdated(r.now())

		// A map keeps nil pointers as NULL; a struct update would skip them.
		res := tx.Model(&telegramUserModel{}).
			Where("telegram_id = ?", telegramID).
			Updates(map[string]interface{}{
				"username":   user.Username,
				"full_name":  user.FullName,
				"balance":    user.Balance,
				"is_manager": user.IsManager,
				"is_admin":   user.IsAdmin,
				"updated":    user.Updated,
			})
		if res.Error != nil {
			return res.Error
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update telegram user %d: %w", telegramID, err)
	}
	return updated, nil
}

func (r *TelegramUserRepository) Delete(ctx context.Context, telegramID int64) error {
	res := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).Delete(&telegramUserModel{})
	if res.Error != nil {
		return fmt.Errorf("delete telegram user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete telegram user %d: %w", telegramID, entity.ErrNotFound)
	}
	return nil
}

func (r *TelegramUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&telegramUserModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count telegram users: %w", err)
	}
	return count, nil
}

func (r *TelegramUserRepository) List(ctx context.Context, limit, offset int) ([]*entity.TelegramUser, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("invalid list window limit=%d offset=%d", limit, offset)
	}

	var rows []telegramUserModel
	err := r.db.WithContext(ctx).
		Order("telegram_id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list telegram users: %w", err)
	}

	users := make([]*entity.TelegramUser, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toEntity())
	}
	return users, nil
}

func (r *TelegramUserRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *TelegramUserRepository) find(db *gorm.DB, telegramID int64) (*telegramUserModel, error) {
	var m telegramUserModel
	if err := db.Where("telegram_id = ?", telegramID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/internal/domain/repository"
)

// TelegramUserRepository keeps records in a map guarded by a single lock, so
// the duplicate check and the insert in Create are atomic.
type TelegramUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.TelegramUser
	now   func() time.Time
}

func NewTelegramUserRepository() *TelegramUserRepository {
	return &TelegramUserRepository{
		users: make(map[int64]*entity.TelegramUser),
		now:   entity.Now,
	}
}

var _ repository.TelegramUserRepository = (*TelegramUserRepository)(nil)

// SetClock replaces the time source used for Created/Updated.
func (r *TelegramUserRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *TelegramUserRepository) Create(ctx context.Context, user *entity.TelegramUser) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid telegram user: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.TelegramID]; ok {
		return fmt.Errorf("failed to create telegram user %d: %w", user.TelegramID, entity.ErrConflict)
	}

	user.StampCreated(r.now())
	r.users[user.TelegramID] = user.Clone()
	return nil
}

func (r *TelegramUserRepository) Get(ctx context.Context, telegramID int64) (*entity.TelegramUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[telegramID]
	if !ok {
		return nil, fmt.Errorf("failed to get telegram user %d: %w", telegramID, entity.ErrNotFound)
	}
	return u.Clone(), nil
}

func (r *TelegramUserRepository) Update(ctx context.Context, telegramID int64, patch entity.Patch) (*entity.TelegramUser, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telegram user patch: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[telegramID]
	if !ok {
		return nil, fmt.Errorf("failed to update telegram user %d: %w", telegramID, entity.ErrNotFound)
	}

	updated := u.Clone()
	updated.Apply(patch)
	updated.StampUpdated(r.now())
	r.users[telegramID] = updated
	return updated.Clone(), nil
}

func (r *TelegramUserRepository) Delete(ctx context.Context, telegramID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[telegramID]; !ok {
		return fmt.Errorf("failed to delete telegram user %d: %w", telegramID, entity.ErrNotFound)
	}
	delete(r.users, telegramID)
	return nil
}

func (r *TelegramUserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *TelegramUserRepository) List(ctx context.Context, limit, offset int) ([]*entity.TelegramUser, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("invalid list window limit=%d offset=%d", limit, offset)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if offset >= len(ids) {
		return []*entity.TelegramUser{}, nil
	}
	end := len(ids)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	users := make([]*entity.TelegramUser, 0, end-offset)
	for _, id := range ids[offset:end] {
		users = append(users, r.users[id].Clone())
	}
	return users, nil
}

func (r *TelegramUserRepository) Ping(ctx context.Context) error {
	return nil
}

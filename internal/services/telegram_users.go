package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/internal/domain/repository"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	"go.uber.org/zap"
)

// ErrInvalidPage is returned for page numbers below 1
var ErrInvalidPage = errors.New("page should not be less than 1")

// Page is one slice of the TelegramUser collection.
type Page struct {
	Items      []*entity.TelegramUser
	TotalItems int64
	Number     int
	Size       int
}

// LastPage is the number of the final non-empty page, at least 1.
func (p Page) LastPage() int {
	if p.TotalItems == 0 {
		return 1
	}
	return int((p.TotalItems + int64(p.Size) - 1) / int64(p.Size))
}

type TelegramUserService struct {
	repo     repository.TelegramUserRepository
	pageSize int
	logger   logger.Logger
}

func NewTelegramUserService(repo repository.TelegramUserRepository, pageSize int, logger logger.Logger) *TelegramUserService {
	return &TelegramUserService{
		repo:     repo,
		pageSize: pageSize,
		logger:   logger,
	}
}

func (s *TelegramUserService) Create(ctx context.Context, user *entity.TelegramUser) (*entity.TelegramUser, error) {
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("telegram user created", zap.Int64("telegram_id", user.TelegramID))
	return user, nil
}

func (s *TelegramUserService) Get(ctx context.Context, telegramID int64) (*entity.TelegramUser, error) {
	return s.repo.Get(ctx, telegramID)
}

// GetOrCreate returns the existing record or creates one from draft. A
// concurrent create of the same id is resolved by re-reading.
func (s *TelegramUserService) GetOrCreate(ctx context.Context, draft *entity.TelegramUser) (*entity.TelegramUser, bool, error) {
	existing, err := s.repo.Get(ctx, draft.TelegramID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, false, err
	}

	created, err := s.Create(ctx, draft)
	if errors.Is(err, entity.ErrConflict) {
		existing, err := s.repo.Get(ctx, draft.TelegramID)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *TelegramUserService) List(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		return Page{}, ErrInvalidPage
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("failed to count telegram users: %w", err)
	}

	result := Page{Items: []*entity.TelegramUser{}, TotalItems: total, Number: page, Size: s.pageSize}
	// Pages past the end are answered without touching storage, so the
	// offset below never overflows.
	if total == 0 || page > result.LastPage() {
		return result, nil
	}

	items, err := s.repo.List(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return Page{}, fmt.Errorf("failed to list telegram users: %w", err)
	}
	result.Items = items
	return result, nil
}

func (s *TelegramUserService) Update(ctx context.Context, telegramID int64, patch entity.Patch) (*entity.TelegramUser, error) {
	user, err := s.repo.Update(ctx, telegramID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("telegram user updated", zap.Int64("telegram_id", telegramID))
	return user, nil
}

func (s *TelegramUserService) Delete(ctx context.Context, telegramID int64) error {
	if err := s.repo.Delete(ctx, telegramID); err != nil {
		return err
	}
	s.logger.Info("telegram user deleted", zap.Int64("telegram_id", telegramID))
	return nil
}

func (s *TelegramUserService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

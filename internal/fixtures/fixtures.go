// Package fixtures seeds the Entity Store from a YAML file.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the document layout:
//
//	telegram_users:
//	  - telegramId: 111222333
//	    username: fixture_user
//	    fullName: Fixture User
type File struct {
	TelegramUsers []TelegramUser `yaml:"telegram_users"`
}

type TelegramUser struct {
	TelegramID *int64  `yaml:"telegramId"`
	Username   *string `yaml:"username"`
	FullName   *string `yaml:"fullName"`
	Balance    int64   `yaml:"balance"`
	IsManager  bool    `yaml:"isManager"`
	IsAdmin    bool    `yaml:"isAdmin"`
}

// Creator is the subset of the TelegramUser service the loader needs.
type Creator interface {
	Create(ctx context.Context, user *entity.TelegramUser) (*entity.TelegramUser, error)
}

// Result counts what a Load did.
type Result struct {
	Created int
	Skipped int
}

// ReadFile parses path into entities, validating each record.
func ReadFile(path string) ([]*entity.TelegramUser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a fixtures document. Unknown keys and duplicate ids are errors.
func Parse(r io.Reader) ([]*entity.TelegramUser, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc File
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	seen := make(map[int64]struct{}, len(doc.TelegramUsers))
	users := make([]*entity.TelegramUser, 0, len(doc.TelegramUsers))
	for i, fx := range doc.TelegramUsers {
		if fx.TelegramID == nil {
			return nil, fmt.Errorf("fixture #%d: telegramId is required", i)
		}
		id := *fx.TelegramID
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("fixture #%d: duplicate telegramId %d", i, id)
		}
		seen[id] = struct{}{}

		u := &entity.TelegramUser{
			TelegramID: id,
			Username:   fx.Username,
			FullName:   fx.FullName,
			Balance:    fx.Balance,
			IsManager:  fx.IsManager,
			IsAdmin:    fx.IsAdmin,
		}
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("fixture #%d: %w", i, err)
		}
		users = append(users, u)
	}
	return users, nil
}

// Load creates every user, skipping ids that already exist.
func Load(ctx context.Context, creator Creator, users []*entity.TelegramUser, log logger.Logger) (Result, error) {
	var res Result
	for _, u := range users {
		if _, err := creator.Create(ctx, u.Clone()); err != nil {
			if errors.Is(err, entity.ErrConflict) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("load fixture %d: %w", u.TelegramID, err)
		}
		res.Created++
	}

	log.Info("fixtures loaded", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
	return res, nil
}

// LoadFile is ReadFile followed by Load.
func LoadFile(ctx context.Context, creator Creator, path string, log logger.Logger) (Result, error) {
	users, err := ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return Load(ctx, creator, users, log.With(zap.String("file", path)))
}

package sqlite

import (
	"time"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
)

// telegramUserModel is the gorm row. Timestamps are written explicitly by the
// repository, so the columns avoid gorm's CreatedAt/UpdatedAt conventions.
type telegramUserModel struct {
	TelegramID int64     `gorm:"column:telegram_id;primaryKey;autoIncrement:false"`
	Username   *string   `gorm:"column:username;size:40"`
	FullName   *string   `gorm:"column:full_name;size:200"`
	Balance    int64     `gorm:"column:balance;not null;default:0"`
	IsManager  bool      `gorm:"column:is_manager;not null;default:false"`
	IsAdmin    bool      `gorm:"column:is_admin;not null;default:false"`
	Created    time.Time `gorm:"column:created;not null"`
	Updated    time.Time `gorm:"column:updated;not null"`
}

func (telegramUserModel) TableName() string {
	return "telegram_users"
}

func toModel(u *entity.TelegramUser) *telegramUserModel {
	return &telegramUserModel{
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FullName:   u.FullName,
		Balance:    u.Balance,
		IsManager:  u.IsManager,
		IsAdmin:    u.IsAdmin,
		Created:    u.Created,
		Updated:    u.Updated,
	}
}

func (m *telegramUserModel) toEntity() *entity.TelegramUser {
	return &entity.TelegramUser{
		TelegramID: m.TelegramID,
		Username:   m.Username,
		FullName:   m.FullName,
		Balance:    m.Balance,
		IsManager:  m.IsManager,
		IsAdmin:    m.IsAdmin,
		Created:    m.Created.UTC(),
		Updated:    m.Updated.UTC(),
	}
}

package entity

import (
	"time"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 40
	MaxFullNameLength = 200
)

// TelegramUser is a persisted Telegram account record keyed by its Telegram id.
type TelegramUser struct {
	TelegramID int64     `json:"telegramId"`
	Username   *string   `json:"username"`
	FullName   *string   `json:"fullName"`
	Balance    int64     `json:"balance"`
	IsManager  bool      `json:"isManager"`
	IsAdmin    bool      `json:"isAdmin"`
	Created    time.Time `json:"created"`
	Updated    time.Time `json:"updated"`
}

// Now returns the current time in the precision every store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (u *TelegramUser) Validate() error {
	if err := validateLength("username", u.Username, MaxUsernameLength); err != nil {
		return err
	}
	if err := validateLength("fullName", u.FullName, MaxFullNameLength); err != nil {
		return err
	}
	return nil
}

// StampCreated sets both lifecycle timestamps for a record about to be inserted.
func (u *TelegramUser) StampCreated(now time.Time) {
	u.Created = now
	u.Updated = now
}

// StampUpdated refreshes Updated. It never moves Updated before Created.
func (u *TelegramUser) StampUpdated(now time.Time) {
	if now.Before(u.Created) {
		now = u.Created
	}
	u.Updated = now
}

// Apply merges the fields set in p. TelegramID and timestamps are left alone.
func (u *TelegramUser) Apply(p Patch) {
	if p.Username.Set {
		u.Username = p.Username.Value
	}
	if p.FullName.Set {
		u.FullName = p.FullName.Value
	}
	if p.Balance.Set {
		u.Balance = p.Balance.Value
	}
	if p.IsManager.Set {
		u.IsManager = p.IsManager.Value
	}
	if p.IsAdmin.Set {
		u.IsAdmin = p.IsAdmin.Value
	}
}

func (u *TelegramUser) Clone() *TelegramUser {
	c := *u
	if u.Username != nil {
		s := *u.Username
		c.Username = &s
	}
	if u.FullName != nil {
		s := *u.FullName
		c.FullName = &s
	}
	return &c
}

func validateLength(field string, s *string, max int) error {
	if s == nil {
		return nil
	}
	if utf8.RuneCountInString(*s) > max {
		return TooLong(field, max)
	}
	return nil
}

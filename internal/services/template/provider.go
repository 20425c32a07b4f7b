package template

import (
	"strconv"
	"strings"
	"time"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
)

// Variables exposes a TelegramUser to templates under the "user" scope.
// Nullable fields render as an empty string.
func Variables(u *entity.TelegramUser) map[string]string {
	vars := map[string]string{
		"user.id":         "",
		"user.username":   "",
		"user.full_name":  "",
		"user.name":       "",
		"user.balance":    "",
		"user.registered": "",
	}
	if u == nil {
		return vars
	}

	vars["user.id"] = strconv.FormatInt(u.TelegramID, 10)
	vars["user.username"] = deref(u.Username)
	vars["user.full_name"] = deref(u.FullName)
	vars["user.name"] = DisplayName(u)
	vars["user.balance"] = strconv.FormatInt(u.Balance, 10)
	if !u.Created.IsZero() {
		vars["user.registered"] = u.Created.Format(time.RFC3339)
	}
	return vars
}

// DisplayName picks full name, then @username, then the numeric id.
func DisplayName(u *entity.TelegramUser) string {
	if name := strings.TrimSpace(deref(u.FullName)); name != "" {
		return name
	}
	if username := deref(u.Username); username != "" {
		return "@" + username
	}
	return strconv.FormatInt(u.TelegramID, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/VladKovDev/tguser-api/internal/domain/command"
	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/internal/services"
	"github.com/VladKovDev/tguser-api/internal/services/template"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	msgNotRegistered = "You are not registered yet. Send /start first."
	msgAdminOnly     = "This command is available to administrators only."
	msgUnknown       = "Unknown command. Try /start or /me."
)

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch strings.ToLower(message.Command()) {
	case command.Start:
		return b.startCommand(ctx, message)
	case command.Me:
		return b.meCommand(ctx, message)
	case command.Users:
		return b.usersCommand(ctx, message)
	default:
		return b.sendMessage(message.Chat.ID, msgUnknown)
	}
}

// startCommand registers the sender on first contact.
func (b *Bot) startCommand(ctx context.Context, message *tgbotapi.Message) error {
	user, created, err := b.users.GetOrCreate(ctx, draftFromSender(message.From))
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	if created {
		b.logger.Info("registered telegram user via bot", zap.Int64("telegram_id", user.TelegramID))
		return b.sendMessage(message.Chat.ID, b.render(b.cfg.WelcomeText, user))
	}
	return b.sendMessage(message.Chat.ID, b.render(b.cfg.WelcomeBackText, user))
}

func (b *Bot) meCommand(ctx context.Context, message *tgbotapi.Message) error {
	user, err := b.users.Get(ctx, message.From.ID)
	if errors.Is(err, entity.ErrNotFound) {
		return b.sendMessage(message.Chat.ID, msgNotRegistered)
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	return b.sendMessage(message.Chat.ID, formatUser(user))
}

// usersCommand lists one page of users; the optional argument is the page number.
func (b *Bot) usersCommand(ctx context.Context, message *tgbotapi.Message) error {
	caller, err := b.users.Get(ctx, message.From.ID)
	if errors.Is(err, entity.ErrNotFound) {
		return b.sendMessage(message.Chat.ID, msgNotRegistered)
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !caller.IsAdmin {
		return b.sendMessage(message.Chat.ID, msgAdminOnly)
	}

	pageNum := 1
	if arg := strings.TrimSpace(message.CommandArguments()); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return b.sendMessage(message.Chat.ID, "Usage: /users [page], page starts at 1.")
		}
		pageNum = n
	}

	page, err := b.users.List(ctx, pageNum)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	return b.sendMessage(message.Chat.ID, formatPage(page))
}

// draftFromSender builds a TelegramUser from the Telegram profile, clipped to
// the stored field limits.
func draftFromSender(from *tgbotapi.User) *entity.TelegramUser {
	u := &entity.TelegramUser{TelegramID: from.ID}
	if from.UserName != "" {
		username := truncate(from.UserName, entity.MaxUsernameLength)
		u.Username = &username
	}
	if name := strings.TrimSpace(from.FirstName + " " + from.LastName); name != "" {
		name = truncate(name, entity.MaxFullNameLength)
		u.FullName = &name
	}
	return u
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func formatUser(u *entity.TelegramUser) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Telegram ID: %d\n", u.TelegramID)
	fmt.Fprintf(&sb, "Username: %s\n", orNotSet(u.Username, "@"))
	fmt.Fprintf(&sb, "Full name: %s\n", orNotSet(u.FullName, ""))
	fmt.Fprintf(&sb, "Balance: %d\n", u.Balance)
	fmt.Fprintf(&sb, "Manager: %s\n", yesNo(u.IsManager))
	fmt.Fprintf(&sb, "Admin: %s\n", yesNo(u.IsAdmin))
	fmt.Fprintf(&sb, "Registered: %s", u.Created.Format(time.RFC3339))
	return sb.String()
}

func formatPage(p services.Page) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Users: %d (page %d of %d)\n", p.TotalItems, p.Number, p.LastPage())
	if len(p.Items) == 0 {
		sb.WriteString("No users on this page.")
		return sb.String()
	}
	for _, u := range p.Items {
		fmt.Fprintf(&sb, "\n%d %s", u.TelegramID, template.DisplayName(u))
	}
	return sb.String()
}

func orNotSet(s *string, prefix string) string {
	if s == nil || *s == "" {
		return "not set"
	}
	return prefix + *s
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

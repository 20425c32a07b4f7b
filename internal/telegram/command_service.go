package telegram

import (
	"context"
	"fmt"

	"github.com/VladKovDev/tguser-api/internal/domain/command"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// CommandService publishes the bot's command menu. Every private chat sees
// the public commands; each admin's own chat additionally sees the admin ones.
type CommandService struct {
	api    Sender
	logger logger.Logger
}

func NewCommandService(api Sender, logger logger.Logger) *CommandService {
	return &CommandService{api: api, logger: logger}
}

func (s *CommandService) RegisterCommands(ctx context.Context, adminIDs []int64) error {
	public := command.GetPublicCommands()
	publicMenu := menuEntries(public)
	setPublic := tgbotapi.NewSetMyCommandsWithScope(tgbotapi.NewBotCommandScopeAllPrivateChats(), publicMenu...)
	if _, err := s.api.Request(setPublic); err != nil {
		return fmt.Errorf("failed to register public commands: %w", err)
	}
	s.logger.Info("registered public commands", zap.Int("count", len(public)))

	admin := command.GetAdminCommands()
	if len(admin) == 0 || len(adminIDs) == 0 {
		return nil
	}
	adminMenu := append(menuEntries(public), menuEntries(admin)...)

	for _, id := range adminIDs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("admin registration cancelled: %w", err)
		}
		// a user's private chat shares the user's id
		setAdmin := tgbotapi.NewSetMyCommandsWithScope(tgbotapi.NewBotCommandScopeChat(id), adminMenu...)
		if _, err := s.api.Request(setAdmin); err != nil {
			return fmt.Errorf("failed to register admin commands for %d: %w", id, err)
		}
		s.logger.Info("registered admin commands", zap.Int64("user_id", id))
	}
	return nil
}

// menuEntries renders commands for setMyCommands, which takes bare names
// without the leading slash.
func menuEntries(cmds command.CommandSlice) []tgbotapi.BotCommand {
	entries := make([]tgbotapi.BotCommand, 0, len(cmds))
	for _, cmd := range cmds {
		entries = append(entries, tgbotapi.BotCommand{Command: cmd.Name, Description: cmd.Description})
	}
	return entries
}

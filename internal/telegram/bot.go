package telegram

import (
	"context"
	"fmt"

	"github.com/VladKovDev/tguser-api/internal/config"
	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/internal/services"
	"github.com/VladKovDev/tguser-api/internal/services/template"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the bot talks through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// UserService is the TelegramUser service as seen by the bot.
type UserService interface {
	Get(ctx context.Context, telegramID int64) (*entity.TelegramUser, error)
	GetOrCreate(ctx context.Context, draft *entity.TelegramUser) (*entity.TelegramUser, bool, error)
	List(ctx context.Context, page int) (services.Page, error)
}

type Bot struct {
	api            *tgbotapi.BotAPI
	sender         Sender
	users          UserService
	commandService *CommandService
	renderer       *template.Renderer
	cfg            config.TelegramConfig
	logger         logger.Logger
}

func NewBot(api *tgbotapi.BotAPI, users UserService, cfg config.TelegramConfig, logger logger.Logger) (*Bot, error) {
	api.Debug = cfg.Debug
	b, err := newBot(api, users, cfg, logger)
	if err != nil {
		return nil, err
	}
	b.api = api
	return b, nil
}

func newBot(sender Sender, users UserService, cfg config.TelegramConfig, logger logger.Logger) (*Bot, error) {
	renderer := template.NewRenderer()
	known := template.Variables(nil)
	for name, text := range map[string]string{
		"welcome_text":      cfg.WelcomeText,
		"welcome_back_text": cfg.WelcomeBackText,
	} {
		if err := renderer.Check(text, known); err != nil {
			return nil, fmt.Errorf("telegram.%s: %w", name, err)
		}
	}

	return &Bot{
		sender:         sender,
		users:          users,
		commandService: NewCommandService(sender, logger),
		renderer:       renderer,
		cfg:            cfg,
		logger:         logger,
	}, nil
}

// NewBotAPI authorizes against the Bot API with token.
func NewBotAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	return api, nil
}

// RegisterCommands registers bot commands with Telegram API using role-based visibility
func (b *Bot) RegisterCommands(ctx context.Context) error {
	return b.commandService.RegisterCommands(ctx, b.cfg.AdminIDs)
}

// Start long-polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.logger.Info("authorized on account", zap.String("username", b.api.Self.UserName))

	if err := b.RegisterCommands(ctx); err != nil {
		b.logger.Warn("failed to register commands", zap.Error(err))
	}

	b.handleUpdates(ctx, b.initUpdatesChannel())
}

func (b *Bot) initUpdatesChannel() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message"}

	return b.api.GetUpdatesChan(u)
}

func (b *Bot) handleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("shutting down bot")
			if b.api != nil {
				b.api.StopReceivingUpdates()
			}
			return
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("updates channel closed")
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}
	if !msg.IsCommand() {
		return
	}

	if err := b.handleCommand(ctx, msg); err != nil {
		b.logger.Error("failed to handle command",
			zap.String("command", msg.Command()),
			zap.Int64("user_id", msg.From.ID),
			zap.Error(err),
		)
	}
}

func (b *Bot) render(text string, u *entity.TelegramUser) string {
	return b.renderer.Render(text, template.Variables(u))
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

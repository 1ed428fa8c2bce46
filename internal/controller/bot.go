package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/controller/handlers"
	"github.com/Freeeeeet/barber_bot/internal/controller/labels"
	"github.com/Freeeeeet/barber_bot/internal/controller/state"
	"github.com/Freeeeeet/barber_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Deps зависимости диалога
type Deps struct {
	API            handlers.DirectoryAPI
	SlotService    *service.SlotService
	BookingService *service.BookingService
	SurveyService  *service.SurveyService
	Labels         *labels.Catalog
	Location       *time.Location
	Clock          service.Clock
}

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, deps Deps, logger *zap.Logger) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		deps.API,
		deps.SlotService,
		deps.BookingService,
		deps.SurveyService,
		stateManager,
		deps.Labels,
		&botSender{bot: botInstance},
		deps.Location,
		deps.Clock,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// Handlers обработчики диалога, они же отправляют опросы диспетчеру
func (c *BotController) Handlers() *handlers.Handlers {
	return c.handlers
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Весь текст, включая /start, идёт через диалог с состояниями
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handleUpdate)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handleUpdate)

	return c.setCommands(ctx)
}

func (c *BotController) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	c.handlers.HandleUpdate(ctx, update)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "💈 Главное меню"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

// botSender отправляет сообщения через Telegram Bot API
type botSender struct {
	bot *bot.Bot
}

func (s *botSender) SendMessage(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	}

	if _, err := s.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

func (s *botSender) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := s.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/apiclient"
	"github.com/Freeeeeet/barber_bot/internal/controller/labels"
	"github.com/Freeeeeet/barber_bot/internal/controller/state"
	"github.com/Freeeeeet/barber_bot/internal/model"
	"github.com/Freeeeeet/barber_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Sender отправка сообщений в Telegram
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// DirectoryAPI справочники внешнего API, нужные диалогу
type DirectoryAPI interface {
	UserByTelegramID(ctx context.Context, telegramID int64) apiclient.Result[*model.User]
	Barbers(ctx context.Context) apiclient.Result[[]model.Barber]
	ServiceTypes(ctx context.Context) apiclient.Result[[]model.ServiceType]
	Services(ctx context.Context, typeID, barberID int64) apiclient.Result[[]model.Service]
	Breaks(ctx context.Context, barberID int64) apiclient.Result[[]model.Break]
}

// Handlers содержит все зависимости для обработки сообщений
type Handlers struct {
	api            DirectoryAPI
	slotService    *service.SlotService
	bookingService *service.BookingService
	surveyService  *service.SurveyService
	stateManager   *state.Manager
	labels         *labels.Catalog
	sender         Sender
	loc            *time.Location
	now            service.Clock
	logger         *zap.Logger
}

// NewHandlers создаёт новый обработчик сообщений
func NewHandlers(
	api DirectoryAPI,
	slotService *service.SlotService,
	bookingService *service.BookingService,
	surveyService *service.SurveyService,
	stateManager *state.Manager,
	catalog *labels.Catalog,
	sender Sender,
	loc *time.Location,
	now service.Clock,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		api:            api,
		slotService:    slotService,
		bookingService: bookingService,
		surveyService:  surveyService,
		stateManager:   stateManager,
		labels:         catalog,
		sender:         sender,
		loc:            loc,
		now:            now,
		logger:         logger,
	}
}

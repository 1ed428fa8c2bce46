package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/barber_bot/internal/apiclient"
	"github.com/Freeeeeet/barber_bot/internal/model"
	"github.com/Freeeeeet/barber_bot/internal/repository"
	"go.uber.org/zap"
)

// DirectoryAPI справочные данные для текста опроса
type DirectoryAPI interface {
	Booking(ctx context.Context, id int64) apiclient.Result[*model.Booking]
	Barber(ctx context.Context, id int64) apiclient.Result[*model.Barber]
	Service(ctx context.Context, id int64) apiclient.Result[*model.Service]
}

// SurveyPrompt всё, что нужно для отправки опроса пользователю
type SurveyPrompt struct {
	Survey  model.PendingSurvey
	Booking *model.Booking
	Barber  *model.Barber  // nil если мастер не загрузился
	Service *model.Service // nil если услуга не загрузилась
}

// SurveyNotifier доставляет опрос в чат и переводит диалог в ожидание оценки
type SurveyNotifier interface {
	NotifySurvey(ctx context.Context, prompt SurveyPrompt) error
}

// SurveyDispatcher рассылает опросы, срок которых наступил
type SurveyDispatcher struct {
	store    repository.SurveyStore
	api      DirectoryAPI
	notifier SurveyNotifier
	now      Clock
	logger   *zap.Logger
}

func NewSurveyDispatcher(
	store repository.SurveyStore,
	api DirectoryAPI,
	notifier SurveyNotifier,
	now Clock,
	logger *zap.Logger,
) *SurveyDispatcher {
	return &SurveyDispatcher{
		store:    store,
		api:      api,
		notifier: notifier,
		now:      now,
		logger:   logger,
	}
}

// Tick один проход рассылки, возвращает число отправленных опросов.
// Ошибка по одному опросу не останавливает остальные; неотправленный опрос
// остаётся в очереди до следующего тика. Отметка ставится после отправки,
// так что при падении между ними опрос уйдёт повторно.
func (d *SurveyDispatcher) Tick(ctx context.Context) int {
	due, err := d.store.Due(ctx, d.now().UTC())
	if err != nil {
		d.logger.Error("Failed to load due surveys", zap.Error(err))
		return 0
	}

	if len(due) == 0 {
		return 0
	}

	d.logger.Info("Dispatching surveys", zap.Int("due", len(due)))

	sent := 0
	for _, survey := range due {
		if ctx.Err() != nil {
			d.logger.Warn("Survey dispatch interrupted", zap.Error(ctx.Err()))
			break
		}

		if err := d.dispatch(ctx, survey); err != nil {
			d.logger.Error("Failed to dispatch survey",
				zap.Int64("booking_id", survey.BookingID),
				zap.Int64("telegram_id", survey.TelegramID),
				zap.Error(err))
			continue
		}

		if err := d.store.MarkSent(ctx, survey.BookingID, d.now()); err != nil {
			d.logger.Error("Failed to mark survey sent",
				zap.Int64("booking_id", survey.BookingID),
				zap.Error(err))
		}
		sent++
	}

	d.logger.Info("Survey dispatch finished",
		zap.Int("due", len(due)),
		zap.Int("sent", sent))
	return sent
}

func (d *SurveyDispatcher) dispatch(ctx context.Context, survey model.PendingSurvey) error {
	bookingRes := d.api.Booking(ctx, survey.BookingID)
	if !bookingRes.IsOK() || bookingRes.Value == nil {
		return fmt.Errorf("load booking %d: %w", survey.BookingID, bookingRes.Error())
	}

	prompt := SurveyPrompt{
		Survey:  survey,
		Booking: bookingRes.Value,
	}

	if res := d.api.Barber(ctx, survey.BarberID); res.IsOK() {
		prompt.Barber = res.Value
	} else {
		d.logger.Warn("Survey without barber details",
			zap.Int64("booking_id", survey.BookingID),
			zap.Error(res.Error()))
	}

	if res := d.api.Service(ctx, bookingRes.Value.ServiceID); res.IsOK() {
		prompt.Service = res.Value
	} else {
		d.logger.Warn("Survey without service details",
			zap.Int64("booking_id", survey.BookingID),
			zap.Error(res.Error()))
	}

	return d.notifier.NotifySurvey(ctx, prompt)
}

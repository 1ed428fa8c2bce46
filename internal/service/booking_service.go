package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/apiclient"
	"github.com/Freeeeeet/barber_bot/internal/model"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const defaultVisitDuration = time.Hour

// BookingAPI создание записи во внешнем API
type BookingAPI interface {
	CreateBooking(ctx context.Context, req model.BookingRequest) apiclient.Result[*model.Booking]
}

// BookingInput собранный в диалоге черновик записи
type BookingInput struct {
	User      *model.User `validate:"required"`
	BarberID  int64       `validate:"gt=0"`
	ServiceID int64       `validate:"gt=0"`
	Date      time.Time   `validate:"required"`
	Time      string      `validate:"required"`
	Duration  int         `validate:"gte=0"` // минуты, 0 если неизвестна
	Lang      string      `validate:"required"`
}

// SurveyEnqueuer ставит отложенный опрос в очередь
type SurveyEnqueuer interface {
	Enqueue(ctx context.Context, survey model.PendingSurvey) error
}

type BookingService struct {
	api      BookingAPI
	surveys  SurveyEnqueuer
	loc      *time.Location
	now      Clock
	validate *validator.Validate
	logger   *zap.Logger
}

func NewBookingService(
	api BookingAPI,
	surveys SurveyEnqueuer,
	loc *time.Location,
	now Clock,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		api:      api,
		surveys:  surveys,
		loc:      loc,
		now:      now,
		validate: validator.New(),
		logger:   logger,
	}
}

// CreateBooking создаёт запись и ставит опрос после визита.
// Опрос ставится только когда API вернул запись с id.
func (s *BookingService) CreateBooking(ctx context.Context, in BookingInput) (*model.Booking, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}

	startUTC, err := LocalToUTC(in.Date, in.Time, s.loc)
	if err != nil {
		return nil, fmt.Errorf("combine %s %s: %w", in.Date.Format(time.DateOnly), in.Time, err)
	}

	res := s.api.CreateBooking(ctx, model.BookingRequest{
		UserID:    in.User.ID,
		BarberID:  in.BarberID,
		ServiceID: in.ServiceID,
		StartTime: startUTC,
	})
	if !res.IsOK() || res.Value == nil || res.Value.ID == 0 {
		s.logger.Error("Failed to create booking",
			zap.Int64("user_id", in.User.ID),
			zap.Int64("barber_id", in.BarberID),
			zap.Int64("service_id", in.ServiceID),
			zap.Time("start_time", startUTC),
			zap.String("status", res.Status.String()),
			zap.Error(res.Error()))
		return nil, ErrBookingNotCreated
	}

	booking := res.Value
	if booking.StartTime.IsZero() {
		booking.StartTime = startUTC
	}
	if !booking.EndTime.After(booking.StartTime) {
		end := booking.StartTime.Add(visitDuration(in.Duration))
		s.logger.Warn("Booking end time is not after start time, using service duration",
			zap.Int64("booking_id", booking.ID),
			zap.Time("start_time", booking.StartTime),
			zap.Time("end_time", booking.EndTime),
			zap.Time("fallback_end_time", end))
		booking.EndTime = end
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", in.User.ID),
		zap.Int64("barber_id", in.BarberID),
		zap.Time("start_time", booking.StartTime))

	survey := model.PendingSurvey{
		BookingID:  booking.ID,
		UserID:     in.User.ID,
		TelegramID: in.User.TelegramID,
		BarberID:   in.BarberID,
		Lang:       in.Lang,
		SendAt:     SurveySendAt(booking.EndTime),
		CreatedAt:  s.now().UTC(),
	}

	// Запись уже существует, поэтому ошибку очереди только логируем:
	// повторное подтверждение создало бы дубликат
	if err := s.surveys.Enqueue(ctx, survey); err != nil {
		s.logger.Error("Failed to enqueue survey for booking",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err))
	}

	return booking, nil
}

// visitDuration длительность услуги, час если API её не отдал
func visitDuration(minutes int) time.Duration {
	if minutes <= 0 {
		return defaultVisitDuration
	}
	return time.Duration(minutes) * time.Minute
}

// SurveySendAt 15:00 UTC следующего дня после окончания визита
func SurveySendAt(end time.Time) time.Time {
	end = end.UTC()
	return time.Date(end.Year(), end.Month(), end.Day()+1, 15, 0, 0, 0, time.UTC)
}

package service

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/apiclient"
	"go.uber.org/zap"
)

// SlotsAPI часть внешнего API, которая считает свободное время
type SlotsAPI interface {
	AvailableSlots(ctx context.Context, date time.Time, barberID, serviceID int64) apiclient.Result[[]string]
}

// SlotService отдаёт свободное время мастера на дату
type SlotService struct {
	api    SlotsAPI
	loc    *time.Location
	now    Clock
	logger *zap.Logger
}

func NewSlotService(api SlotsAPI, loc *time.Location, now Clock, logger *zap.Logger) *SlotService {
	return &SlotService{
		api:    api,
		loc:    loc,
		now:    now,
		logger: logger,
	}
}

// Slots ленивая последовательность свободного времени ("HH:MM") в порядке API.
// Каждый проход заново обращается к API. На сегодняшнюю дату отбрасывается время,
// которое не позже текущего. Ошибка API даёт пустую последовательность.
func (s *SlotService) Slots(ctx context.Context, date time.Time, barberID, serviceID int64) iter.Seq[string] {
	return func(yield func(string) bool) {
		res := s.api.AvailableSlots(ctx, date, barberID, serviceID)
		if !res.IsOK() {
			s.logger.Warn("Failed to fetch available slots",
				zap.String("date", date.Format(time.DateOnly)),
				zap.Int64("barber_id", barberID),
				zap.Int64("service_id", serviceID),
				zap.String("status", res.Status.String()),
				zap.Error(res.Error()))
			return
		}

		now := s.now().In(s.loc)
		today := SameDay(date, now)

		for _, raw := range res.Value {
			hour, minute, err := ParseTimeOfDay(raw)
			if err != nil {
				s.logger.Warn("Skipping malformed slot", zap.String("slot", raw))
				continue
			}

			if today {
				y, m, d := date.Date()
				start := time.Date(y, m, d, hour, minute, 0, 0, s.loc)
				if !start.After(now) {
					continue
				}
			}

			if !yield(fmt.Sprintf("%02d:%02d", hour, minute)) {
				return
			}
		}
	}
}

// AvailableSlots собирает Slots в срез
func (s *SlotService) AvailableSlots(ctx context.Context, date time.Time, barberID, serviceID int64) []string {
	slots := slices.Collect(s.Slots(ctx, date, barberID, serviceID))
	if slots == nil {
		return []string{}
	}
	return slots
}

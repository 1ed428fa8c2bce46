package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/model"
)

var ErrSurveyNotFound = errors.New("pending survey not found")

// SurveyStore хранилище отложенных опросов (ключ - id записи).
// Реализации сериализуют read-modify-write, чтобы тик рассылки и создание записи не теряли обновления.
type SurveyStore interface {
	// Put создаёт или перезаписывает опрос по BookingID
	Put(ctx context.Context, survey model.PendingSurvey) error
	Get(ctx context.Context, bookingID int64) (*model.PendingSurvey, error)
	// Due возвращает неотправленные опросы с SendAt <= now
	Due(ctx context.Context, now time.Time) ([]model.PendingSurvey, error)
	// MarkSent помечает опрос отправленным; повторный вызов ничего не меняет
	MarkSent(ctx context.Context, bookingID int64, at time.Time) error
	Remove(ctx context.Context, bookingID int64) error
}

func normalizeSurvey(s model.PendingSurvey) model.PendingSurvey {
	s.SendAt = s.SendAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	if s.SentAt != nil {
		at := s.SentAt.UTC()
		s.SentAt = &at
	}
	return s
}

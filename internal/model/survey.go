package model

import "time"

// PendingSurvey отложенный опрос после визита, один на запись
type PendingSurvey struct {
	BookingID  int64      `json:"booking_id"`
	UserID     int64      `json:"user_id"`
	TelegramID int64      `json:"telegram_id"`
	BarberID   int64      `json:"barber_id"`
	Lang       string     `json:"lang"`
	SendAt     time.Time  `json:"send_at"`
	Sent       bool       `json:"sent"`
	CreatedAt  time.Time  `json:"created_at"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
}

// IsDue проверяет, пора ли отправлять опрос
func (s *PendingSurvey) IsDue(now time.Time) bool {
	return !s.Sent && !s.SendAt.After(now)
}

// Rating оценка мастера клиентом
type Rating struct {
	BarberID int64 `json:"barber"`
	ClientID int64 `json:"client"`
	Score    int   `json:"score"`
}

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

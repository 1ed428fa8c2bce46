package state

import (
	"sync"

	"github.com/Freeeeeet/barber_bot/internal/model"
)

// UserState представляет текущее состояние пользователя в диалоге.
// Имя состояния - то, чего бот ждёт следующим сообщением.
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	StateMainMenu UserState = "main_menu"

	// Состояния записи клиента
	StateBarberName        UserState = "barber_name"         // ждём имя мастера
	StateCheckServiceType  UserState = "check_service_type"  // ждём тип услуги
	StateDate              UserState = "date"                // ждём конкретную услугу
	StateTime              UserState = "time"                // ждём "сегодня" или "другой день"
	StateCheckSelectedDate UserState = "check_selected_date" // ждём дату из списка
	StateCheckSelectedTime UserState = "check_selected_time" // ждём время из предложенных
	StateConfirmBooking    UserState = "confirm_booking"

	// Состояния опроса после визита
	StateAwaitingRating  UserState = "awaiting_rating"
	StateAwaitingComment UserState = "awaiting_comment"
)

// IsBooking входит ли состояние в сценарий записи
func (s UserState) IsBooking() bool {
	switch s {
	case StateBarberName, StateCheckServiceType, StateDate, StateTime,
		StateCheckSelectedDate, StateCheckSelectedTime, StateConfirmBooking:
		return true
	}
	return false
}

// SurveyContext запись, по которой идёт опрос
type SurveyContext struct {
	BookingID int64
	BarberID  int64
	ClientID  int64
}

// Session диалог одного пользователя.
// Поля меняются только под блокировкой, полученной через Manager.Acquire.
type Session struct {
	mu sync.Mutex

	TelegramID int64
	State      UserState
	Lang       string
	Draft      Draft
	Profile    *model.User
	Survey     *SurveyContext
}

// Reset возвращает в главное меню и выбрасывает черновик
func (s *Session) Reset() {
	s.State = StateMainMenu
	s.Draft = Draft{}
	s.Survey = nil
}

// Unlock отпускает сессию, полученную через Acquire
func (s *Session) Unlock() {
	s.mu.Unlock()
}

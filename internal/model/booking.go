package model

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED" // Подтверждено
	BookingStatusCancelled BookingStatus = "CANCELLED" // Отменено
	BookingStatusCompleted BookingStatus = "COMPLETED" // Визит состоялся
)

type Booking struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user"`
	BarberID  int64         `json:"barber"`
	ServiceID int64         `json:"service"`
	StartTime time.Time     `json:"start_time"` // всегда UTC
	EndTime   time.Time     `json:"end_time"`   // считает API по длительности услуги
	Status    BookingStatus `json:"status"`
	Comment   string        `json:"comment,omitempty"`
}

// BookingRequest тело запроса на создание записи
type BookingRequest struct {
	UserID    int64     `json:"user"`
	BarberID  int64     `json:"barber"`
	ServiceID int64     `json:"service"`
	StartTime time.Time `json:"start_time"`
}

// BookingPatch частичное обновление записи, пустые поля не отправляются
type BookingPatch struct {
	Status  BookingStatus `json:"status,omitempty"`
	Comment string        `json:"comment,omitempty"`
}

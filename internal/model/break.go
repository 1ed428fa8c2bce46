package model

import "time"

// Break период, когда мастер недоступен для записи
type Break struct {
	ID        int64     `json:"id"`
	BarberID  int64     `json:"barber"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `json:"reason"`
}

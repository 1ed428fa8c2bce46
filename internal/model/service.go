package model

type ServiceType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Service struct {
	ID       int64  `json:"id"`
	TypeID   int64  `json:"service_type"`
	BarberID int64  `json:"barber"`
	Name     string `json:"name"`
	Price    int    `json:"price"`    // в сумах
	Duration int    `json:"duration"` // в минутах
}

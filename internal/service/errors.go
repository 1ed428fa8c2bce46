package service

import "errors"

// Ошибки сервисного слоя, обработчики сопоставляют их с текстами для пользователя
var (
	ErrInvalidSelection  = errors.New("booking selection is incomplete")
	ErrInvalidTime       = errors.New("invalid time of day")
	ErrBookingNotCreated = errors.New("booking was not created")
	ErrInvalidScore      = errors.New("rating score out of range")
	ErrRatingRejected    = errors.New("rating was not accepted")
	ErrCommentRejected   = errors.New("comment was not accepted")
)

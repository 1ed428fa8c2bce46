package apiclient

import "fmt"

// Status исход вызова внешнего API
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// Result единый результат вызова API: данные, "не найдено" или ошибка.
// Вызывающий код проверяет Status, а не тип значения.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

// OK успешный результат
func OK[T any](v T) Result[T] {
	return Result[T]{Status: StatusOK, Value: v}
}

// NotFound результат "ресурс не найден"
func NotFound[T any]() Result[T] {
	return Result[T]{Status: StatusNotFound}
}

// Failed результат с ошибкой (таймаут, 5xx, битое тело)
func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusError, Err: err}
}

// IsOK сокращение для Status == StatusOK
func (r Result[T]) IsOK() bool {
	return r.Status == StatusOK
}

// Error возвращает ошибку для логирования, в том числе для NotFound
func (r Result[T]) Error() error {
	switch r.Status {
	case StatusOK:
		return nil
	case StatusNotFound:
		return ErrNotFound
	default:
		if r.Err == nil {
			return fmt.Errorf("api call failed")
		}
		return r.Err
	}
}

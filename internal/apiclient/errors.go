package apiclient

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("resource not found")

// HTTPStatusError ответ API с неожиданным HTTP-статусом
type HTTPStatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

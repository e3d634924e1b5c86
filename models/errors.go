package models

import "errors"

// ErrNotFound возвращается, когда лид с указанным ID отсутствует в хранилище.
var ErrNotFound = errors.New("lead not found")

// ValidationError — ошибка валидации входных данных.
// Message отдаётся клиенту как есть вместе со статусом 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Пакет service — бизнес-логика gofilebox: проверка учётных данных
// и координация файловой системы с метаданными в PostgreSQL.
package service

import "fmt"

// Error — ошибка бизнес-логики с HTTP-кодом для границы API.
// Классификация на "fail"/"error" выполняется на уровне ответа:
// коды 4xx — вина клиента, остальные — сервера.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Конструкторы типичных ошибок.

// errNotFound — 404 ресурс не найден.
func errNotFound(format string, args ...any) *Error {
	return &Error{StatusCode: 404, Message: fmt.Sprintf(format, args...)}
}

// errForbidden — 403 неверные учётные данные или токен.
func errForbidden(message string) *Error {
	return &Error{StatusCode: 403, Message: message}
}

// errInternal — 500 неожиданная ошибка хранилища или файловой системы.
// Сообщение пустое: подробности остаются в логах, а граница API
// подставляет общий текст ответа.
func errInternal() *Error {
	return &Error{StatusCode: 500}
}

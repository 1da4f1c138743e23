// Пакет errors — формат HTTP-ответов legacy-контракта gofilebox.
// Успех: {"status": "success", "data": ...}.
// Ошибка: {"status": "fail"|"error", "message": "..."} — "fail" для
// кодов 4xx (вина клиента), "error" для остальных (вина сервера).
// Все HTTP-ответы должны использовать WriteSuccess или WriteError.
package errors

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// defaultMessage — текст ошибки, когда подробности не для клиента.
const defaultMessage = "something bad happend"

// successBody — структура тела успешного ответа.
// Поле data опускается, когда операции нечего вернуть (logout).
type successBody struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// errorBody — структура тела ответа с ошибкой.
type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteSuccess записывает успешный ответ в конверте контракта.
func WriteSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(successBody{
		Status: "success",
		Data:   data,
	})
}

// WriteError записывает ответ с ошибкой в конверте контракта.
// Пустое message заменяется общим текстом.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	status := "error"
	if strings.HasPrefix(strconv.Itoa(statusCode), "4") {
		status = "fail"
	}
	if message == "" {
		message = defaultMessage
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Status:  status,
		Message: message,
	})
}

// --- Конструкторы для типичных ошибок ---

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// ValidationError — 405 некорректные входные данные.
// Код 405 закреплён контрактом.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusMethodNotAllowed, message)
}

// Forbidden — 403 неверные учётные данные или токен.
func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

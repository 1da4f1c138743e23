// Пакет validation — проверка входных данных legacy-контракта.
// Правила воспроизводят исходный сервис бит-в-бит: id пользователя —
// телефонный номер из 7-15 цифр или email, пароль — 4-10 символов
// после обрезки пробелов. Менять границы нельзя — это контракт.
package validation

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Ошибки валидации. Обработчики отдают их клиенту со статусом 405.
var (
	// ErrUserIDRequired — id пользователя не передан.
	ErrUserIDRequired = errors.New(`"id" param is required`)
	// ErrUserIDFormat — id не является телефоном или email.
	ErrUserIDFormat = errors.New("id expected as phone number or email")
	// ErrPasswordFormat — пароль вне допустимой длины.
	ErrPasswordFormat = errors.New("password expected as string between 4 and 10 characters long")
	// ErrFileIDRequired — id файла не передан.
	ErrFileIDRequired = errors.New(`"id" param is required`)
	// ErrFileIDFormat — id файла не является числом.
	ErrFileIDFormat = errors.New("expected id of number type")
)

// validate — общий экземпляр go-playground/validator для синтаксических проверок.
var validate = validator.New()

// UserID проверяет идентификатор пользователя: 7-15 цифр (телефон)
// либо синтаксически корректный email.
func UserID(id string) error {
	if id == "" {
		return ErrUserIDRequired
	}
	if isPhone(id) {
		return nil
	}
	if validate.Var(id, "email") == nil {
		return nil
	}
	return ErrUserIDFormat
}

// Password проверяет пароль: после обрезки пробелов длина 4-10 символов.
func Password(password string) error {
	trimmed := strings.TrimSpace(password)
	n := utf8.RuneCountInString(trimmed)
	if n < 4 || n > 10 {
		return ErrPasswordFormat
	}
	return nil
}

// FileID проверяет, что идентификатор файла передан и является числом.
// Проверка намеренно разрешительная (как в исходном сервисе): любое
// парсящееся число проходит, дальше решает поиск в базе.
func FileID(id string) error {
	if id == "" {
		return ErrFileIDRequired
	}
	if _, err := strconv.ParseFloat(id, 64); err != nil {
		return ErrFileIDFormat
	}
	return nil
}

// isPhone — строка из 7-15 цифр без других символов.
func isPhone(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 7 || n > 15 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

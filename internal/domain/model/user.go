// Пакет model — доменные структуры gofilebox.
package model

// User — учётная запись пользователя.
// ID — телефонный номер (7-15 цифр) или email.
type User struct {
	// ID — идентификатор пользователя (телефон или email).
	ID string `json:"id"`
	// PasswordHash — bcrypt-хэш пароля. Наружу не отдаётся.
	PasswordHash string `json:"-"`
}

package model

import "time"

// TokenKind — вид токена сессии.
type TokenKind string

const (
	// TokenAccess — короткоживущий access (bearer) токен.
	TokenAccess TokenKind = "bearer"
	// TokenRefresh — долгоживущий refresh токен.
	TokenRefresh TokenKind = "refresh"
)

// TokenRecord — запись таблицы токенов.
// Инвариант: не более одной живой записи на пару (Subject, Kind) —
// повторная выдача перезаписывает значение.
// Таблица живёт только в памяти процесса и не переживает рестарт.
type TokenRecord struct {
	// Subject — идентификатор пользователя, которому выдан токен.
	Subject string
	// Kind — вид токена (bearer или refresh).
	Kind TokenKind
	// Value — подписанная JWT-строка.
	Value string
	// IssuedAt — время выдачи.
	IssuedAt time.Time
	// ExpiresAt — время истечения.
	ExpiresAt time.Time
}

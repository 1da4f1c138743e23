package token

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bigkaa/gofilebox/internal/domain/model"
)

// InvalidTokenError — ошибка проверки токена. Reason отдаётся клиенту
// со статусом 403 в legacy-формате.
type InvalidTokenError struct {
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return e.Reason
}

// Claims — утверждения JWT: стандартные плюс идентификатор пользователя
// в claim "id", как в legacy-контракте.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Authority — центр выдачи и проверки токенов сессии.
// Подпись HS256, секреты раздельные для access и refresh.
type Authority struct {
	store         *Store
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewAuthority создаёт центр токенов поверх переданной таблицы.
func NewAuthority(store *Store, accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *Authority {
	return &Authority{
		store:         store,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess выдаёт access-токен для subject и записывает его в таблицу,
// вытесняя прежний access-токен того же subject.
func (a *Authority) IssueAccess(subject string) (string, error) {
	return a.issue(subject, model.TokenAccess, a.accessSecret, a.accessTTL)
}

// IssueRefresh выдаёт refresh-токен для subject, вытесняя прежний.
func (a *Authority) IssueRefresh(subject string) (string, error) {
	return a.issue(subject, model.TokenRefresh, a.refreshSecret, a.refreshTTL)
}

func (a *Authority) issue(subject string, kind model.TokenKind, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	expires := now.Add(ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID: subject,
	})

	value, err := tok.SignedString(secret)
	if err != nil {
		return "", err
	}

	a.store.Upsert(model.TokenRecord{
		Subject:   subject,
		Kind:      kind,
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: expires,
	})

	return value, nil
}

// ValidateAccess проверяет access-токен и возвращает subject.
func (a *Authority) ValidateAccess(value string) (string, error) {
	return a.validate(value, model.TokenAccess, a.accessSecret, "invalid authorization token")
}

// ValidateRefresh проверяет refresh-токен и возвращает subject.
func (a *Authority) ValidateRefresh(value string) (string, error) {
	return a.validate(value, model.TokenRefresh, a.refreshSecret, "invalid refresh token")
}

// validate выполняет три проверки по порядку: членство в таблице
// (точное совпадение значения и вида), синтаксис compact JWS,
// криптографическая подпись и срок действия. Провал криптопроверки
// дополнительно удаляет предъявленное значение из таблицы —
// защитный отзыв токена, не прошедшего верификацию.
func (a *Authority) validate(value string, kind model.TokenKind, secret []byte, genericMsg string) (string, error) {
	rec, ok := a.store.FindByValue(value, kind)
	if !ok {
		return "", &InvalidTokenError{Reason: genericMsg}
	}

	if !isWellFormedJWT(value) {
		return "", &InvalidTokenError{Reason: genericMsg}
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		a.store.RemoveByValue(value)
		return "", &InvalidTokenError{Reason: err.Error()}
	}
	if !tok.Valid {
		a.store.RemoveByValue(value)
		return "", &InvalidTokenError{Reason: "token incorrect"}
	}

	return rec.Subject, nil
}

// Refresh выдаёт новый access-токен по refresh-токену.
// Проверяется только членство в таблице: вытеснение записи при
// перевыдаче заменяет криптографическую проверку срока действия.
func (a *Authority) Refresh(refreshValue string) (string, error) {
	rec, ok := a.store.FindByValue(refreshValue, model.TokenRefresh)
	if !ok {
		return "", &InvalidTokenError{Reason: "incorrect refresh token"}
	}
	return a.IssueAccess(rec.Subject)
}

// RevokeSession завершает сессию по access-токену: удаляет из таблицы
// access-запись и refresh-запись того же subject одним действием.
func (a *Authority) RevokeSession(accessValue string) error {
	if !a.store.RemoveSession(accessValue) {
		return &InvalidTokenError{Reason: "incorrect bearer token"}
	}
	return nil
}

// Subject возвращает subject живой access-записи с указанным значением.
// Используется обработчиком /info после прохождения middleware.
func (a *Authority) Subject(accessValue string) (string, error) {
	rec, ok := a.store.FindByValue(accessValue, model.TokenAccess)
	if !ok {
		return "", &InvalidTokenError{Reason: "incorrect bearer token"}
	}
	return rec.Subject, nil
}

// isWellFormedJWT проверяет форму compact JWS: три непустых сегмента
// base64url через точку.
func isWellFormedJWT(value string) bool {
	parts := strings.Split(value, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		if _, err := base64.RawURLEncoding.DecodeString(p); err != nil {
			return false
		}
	}
	return true
}

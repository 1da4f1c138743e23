// auth.go — middleware аутентификации по access-токену сессии.
// Токен проверяется в два шага: членство в хранилище активных сессий,
// затем криптографическая подпись. Отозванный или просроченный токен
// отклоняется даже при валидной подписи.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/bigkaa/gofilebox/internal/api/errors"
	"github.com/bigkaa/gofilebox/internal/token"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeySubject — id аутентифицированного пользователя.
	ContextKeySubject contextKey = "auth_subject"
	// ContextKeyAccessToken — сырое значение access-токена запроса.
	// Нужно обработчику logout: отзыв сессии идёт по значению токена.
	ContextKeyAccessToken contextKey = "auth_access_token"
)

// SessionAuth — middleware аутентификации через хранилище сессий.
type SessionAuth struct {
	tokens *token.Authority
}

// NewSessionAuth создаёт middleware аутентификации.
func NewSessionAuth(tokens *token.Authority) *SessionAuth {
	return &SessionAuth{tokens: tokens}
}

// Middleware возвращает HTTP middleware аутентификации.
// Извлекает Bearer token, валидирует его через хранилище сессий и
// помещает id пользователя и значение токена в контекст запроса.
// Любой провал — 403 с общим сообщением.
func (a *SessionAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := bearerToken(r)
			if value == "" {
				apierrors.Forbidden(w, "invalid authorization token")
				return
			}

			subject, err := a.tokens.ValidateAccess(value)
			if err != nil {
				var invalid *token.InvalidTokenError
				if errors.As(err, &invalid) {
					apierrors.Forbidden(w, invalid.Reason)
					return
				}
				apierrors.Forbidden(w, "invalid authorization token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, subject)
			ctx = context.WithValue(ctx, ContextKeyAccessToken, value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken извлекает значение токена из заголовка Authorization.
// Возвращает пустую строку при отсутствии или неверном формате.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// --- Context helpers ---

// SubjectFromContext извлекает id пользователя из контекста запроса.
// Возвращает пустую строку, если аутентификация не выполнялась.
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(ContextKeySubject).(string)
	return subject
}

// AccessTokenFromContext извлекает значение access-токена из контекста.
func AccessTokenFromContext(ctx context.Context) string {
	value, _ := ctx.Value(ContextKeyAccessToken).(string)
	return value
}

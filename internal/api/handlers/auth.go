// auth.go — обработчики регистрации, входа и управления сессией.
// POST /signup, POST /signin, POST /signin/new_token, GET /info, GET /logout.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/gofilebox/internal/api/errors"
	"github.com/bigkaa/gofilebox/internal/api/middleware"
	"github.com/bigkaa/gofilebox/internal/service"
	"github.com/bigkaa/gofilebox/internal/token"
	"github.com/bigkaa/gofilebox/internal/validation"
)

// AuthHandler — обработчики аутентификации и сессий.
type AuthHandler struct {
	auth   *service.AuthService
	tokens *token.Authority
	logger *slog.Logger
}

// NewAuthHandler создаёт обработчик аутентификации.
func NewAuthHandler(auth *service.AuthService, tokens *token.Authority, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		tokens: tokens,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// credentialsRequest — тело запросов /signup и /signin.
type credentialsRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// refreshRequest — тело запроса /signin/new_token.
type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// SignUp — реализация POST /signup.
// Валидация формата id и пароля выполняется до обращения к базе
// и даёт 405 с текстом конкретной проверки.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	pair, err := h.auth.SignUp(r.Context(), req.ID, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	apierrors.WriteSuccess(w, http.StatusCreated, pair)
}

// SignIn — реализация POST /signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	pair, err := h.auth.SignIn(r.Context(), req.ID, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	apierrors.WriteSuccess(w, http.StatusCreated, pair)
}

// NewToken — реализация POST /signin/new_token.
// Refresh-токен проверяется только на членство в хранилище сессий;
// в ответе — свежий access-токен.
func (h *AuthHandler) NewToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.Forbidden(w, "incorrect refresh token")
		return
	}

	bearer, err := h.tokens.Refresh(req.Refresh)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	apierrors.WriteSuccess(w, http.StatusOK, map[string]string{"bearer": bearer})
}

// Info — реализация GET /info. Требует аутентификации.
// Возвращает id пользователя текущей сессии.
func (h *AuthHandler) Info(w http.ResponseWriter, r *http.Request) {
	access := middleware.AccessTokenFromContext(r.Context())

	id, err := h.auth.UserInfo(r.Context(), access)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	apierrors.WriteSuccess(w, http.StatusOK, map[string]string{"id": id})
}

// Logout — реализация GET /logout. Требует аутентификации.
// Отзывает access- и refresh-токены текущей сессии.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	access := middleware.AccessTokenFromContext(r.Context())

	if err := h.tokens.RevokeSession(access); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Сессия завершена", slog.String("user_id", middleware.SubjectFromContext(r.Context())))
	apierrors.WriteSuccess(w, http.StatusOK, nil)
}

// decodeCredentials разбирает и валидирует тело запроса с учётными
// данными. При провале пишет ответ и возвращает ok=false.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, validation.ErrUserIDRequired.Error())
		return req, false
	}
	if err := validation.UserID(req.ID); err != nil {
		apierrors.ValidationError(w, err.Error())
		return req, false
	}
	if err := validation.Password(req.Password); err != nil {
		apierrors.ValidationError(w, err.Error())
		return req, false
	}
	return req, true
}

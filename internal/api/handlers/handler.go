// handler.go — основной обработчик API gofilebox.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/gofilebox/internal/api/errors"
	"github.com/bigkaa/gofilebox/internal/service"
	"github.com/bigkaa/gofilebox/internal/token"
)

// APIHandler — основной обработчик API.
type APIHandler struct {
	auth   *AuthHandler
	files  *FileHandler
	health *HealthHandler
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(auth *AuthHandler, files *FileHandler, health *HealthHandler) *APIHandler {
	return &APIHandler{
		auth:   auth,
		files:  files,
		health: health,
	}
}

// Auth — обработчики аутентификации.
func (h *APIHandler) Auth() *AuthHandler { return h.auth }

// Files — обработчики файловых операций.
func (h *APIHandler) Files() *FileHandler { return h.files }

// Health — обработчики health endpoints.
func (h *APIHandler) Health() *HealthHandler { return h.health }

// --- Вспомогательные функции ---

// writeServiceError записывает ошибку бизнес-логики в конверте контракта.
// Ошибки токенов сессии всегда транслируются в 403.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		apierrors.WriteError(w, svcErr.StatusCode, svcErr.Message)
		return
	}

	var tokenErr *token.InvalidTokenError
	if errors.As(err, &tokenErr) {
		apierrors.Forbidden(w, tokenErr.Reason)
		return
	}

	logger.Error("Необработанная ошибка сервисного слоя", slog.String("error", err.Error()))
	apierrors.InternalError(w, "")
}

// auth.go — регистрация, вход и проверка учётных данных.
// Пароли хранятся только как bcrypt-хэши (work factor 12).
package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/bigkaa/gofilebox/internal/domain/model"
	"github.com/bigkaa/gofilebox/internal/repository"
	"github.com/bigkaa/gofilebox/internal/token"
)

// bcryptCost — work factor хэширования паролей. Зафиксирован контрактом.
const bcryptCost = 12

// TokenPair — пара токенов, возвращаемая при регистрации и входе.
// JSON-имена полей — из legacy-контракта.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Bearer  string `json:"bearer"`
}

// AuthService — регистрация пользователей и выдача сессий.
type AuthService struct {
	users  repository.UserRepository
	tokens *token.Authority
	logger *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users repository.UserRepository, tokens *token.Authority, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger.With(slog.String("component", "auth_service")),
	}
}

// SignUp регистрирует нового пользователя и открывает сессию.
// Занятость id проверяется до вставки; гонка на вставке закрывается
// уникальным ограничением базы и даёт тот же ответ.
func (s *AuthService) SignUp(ctx context.Context, id, password string) (*TokenPair, error) {
	taken, err := s.users.Exists(ctx, id)
	if err != nil {
		s.logger.Error("Ошибка проверки занятости id", slog.String("error", err.Error()))
		return nil, errInternal()
	}
	if taken {
		return nil, errNotFound("id %s already used", id)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		s.logger.Error("Ошибка хэширования пароля", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	user := &model.User{ID: id, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, errNotFound("id %s already used", id)
		}
		s.logger.Error("Ошибка создания пользователя", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	s.logger.Info("Пользователь зарегистрирован", slog.String("user_id", id))
	return s.issuePair(id)
}

// SignIn проверяет учётные данные и открывает сессию.
// Любой провал — отсутствие пользователя или неверный пароль —
// сводится к одному ответу, чтобы не допустить перебор id.
func (s *AuthService) SignIn(ctx context.Context, id, password string) (*TokenPair, error) {
	if err := s.checkCredentials(ctx, id, password); err != nil {
		return nil, err
	}
	s.logger.Info("Пользователь вошёл", slog.String("user_id", id))
	return s.issuePair(id)
}

// checkCredentials сравнивает пароль с хэшем из базы.
// bcrypt.CompareHashAndPassword устойчив к анализу времени выполнения.
func (s *AuthService) checkCredentials(ctx context.Context, id, password string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return errForbidden("incorrect id or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return errForbidden("incorrect id or password")
	}
	return nil
}

// UserInfo возвращает id пользователя по его access-токену.
func (s *AuthService) UserInfo(ctx context.Context, accessToken string) (string, error) {
	subject, err := s.tokens.Subject(accessToken)
	if err != nil {
		return "", err
	}
	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", errNotFound("user with id %s not found", subject)
		}
		s.logger.Error("Ошибка получения пользователя", slog.String("error", err.Error()))
		return "", errInternal()
	}
	return user.ID, nil
}

// issuePair выдаёт refresh и access токены для subject.
func (s *AuthService) issuePair(subject string) (*TokenPair, error) {
	refresh, err := s.tokens.IssueRefresh(subject)
	if err != nil {
		s.logger.Error("Ошибка выдачи refresh-токена", slog.String("error", err.Error()))
		return nil, errInternal()
	}
	bearer, err := s.tokens.IssueAccess(subject)
	if err != nil {
		s.logger.Error("Ошибка выдачи access-токена", slog.String("error", err.Error()))
		return nil, errInternal()
	}
	return &TokenPair{Refresh: refresh, Bearer: bearer}, nil
}

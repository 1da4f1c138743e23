package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/gofilebox/internal/domain/model"
)

// UserRepository — интерфейс доступа к таблице users.
// Записи создаются при регистрации и читаются при входе,
// обновление и удаление контрактом не предусмотрены.
type UserRepository interface {
	// Create добавляет нового пользователя.
	Create(ctx context.Context, u *model.User) error
	// GetByID возвращает пользователя по id или ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)
	// Exists проверяет занятость id.
	Exists(ctx context.Context, id string) (bool, error)
}

// userRepo — реализация UserRepository через pgx.
type userRepo struct {
	db DBTX
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	query := `INSERT INTO users (id, password) VALUES ($1, $2)`

	if _, err := r.db.Exec(ctx, query, u.ID, u.PasswordHash); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrConflict, u.ID)
		}
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, password FROM users WHERE id = $1`

	u := &model.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return u, nil
}

func (r *userRepo) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки занятости id: %w", err)
	}
	return exists, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/gofilebox/internal/domain/model"
)

// fileColumns — список столбцов таблицы files для SELECT-запросов.
// DRY: одно место для всех SELECT'ов.
const fileColumns = `id, name, extension, mimetype, size, uploaded, path`

// FileRepository — интерфейс доступа к метаданным файлов в таблице files.
// Update и Delete возвращают число затронутых строк: координатор
// файловых операций принимает по нему решение об удалении байтов с диска.
type FileRepository interface {
	// Create вставляет запись и возвращает назначенный базой id.
	Create(ctx context.Context, f *model.FileRecord) (int64, error)
	// GetByID возвращает запись по id или ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.FileRecord, error)
	// List возвращает страницу записей по возрастанию id.
	List(ctx context.Context, limit, offset int) ([]*model.FileRecord, error)
	// Update перезаписывает метаданные записи, возвращает число затронутых строк.
	Update(ctx context.Context, id int64, f *model.FileRecord) (int64, error)
	// Delete удаляет запись, возвращает число затронутых строк.
	Delete(ctx context.Context, id int64) (int64, error)
	// StoragePath возвращает относительный путь файла записи или ErrNotFound.
	StoragePath(ctx context.Context, id int64) (string, error)
}

// fileRepo — реализация FileRepository через pgx.
type fileRepo struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий метаданных файлов.
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, f *model.FileRecord) (int64, error) {
	query := `
		INSERT INTO files (name, extension, mimetype, size, uploaded, path)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, $5)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		f.Name, f.Extension, f.MimeType, f.Size, f.StoragePath,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка вставки записи файла: %w", err)
	}
	return id, nil
}

func (r *fileRepo) GetByID(ctx context.Context, id int64) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)

	f := &model.FileRecord{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.Extension, &f.MimeType, &f.Size, &f.UploadedAt, &f.StoragePath,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи файла: %w", err)
	}
	return f, nil
}

func (r *fileRepo) List(ctx context.Context, limit, offset int) ([]*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files ORDER BY id ASC LIMIT $1 OFFSET $2`, fileColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}
	defer rows.Close()

	var result []*model.FileRecord
	for rows.Next() {
		f := &model.FileRecord{}
		if err := rows.Scan(
			&f.ID, &f.Name, &f.Extension, &f.MimeType, &f.Size, &f.UploadedAt, &f.StoragePath,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи файла: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return result, nil
}

func (r *fileRepo) Update(ctx context.Context, id int64, f *model.FileRecord) (int64, error) {
	query := `
		UPDATE files
		SET name = $1, extension = $2, mimetype = $3, size = $4,
			uploaded = CURRENT_TIMESTAMP, path = $5
		WHERE id = $6`

	tag, err := r.db.Exec(ctx, query,
		f.Name, f.Extension, f.MimeType, f.Size, f.StoragePath, id,
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка обновления записи файла: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *fileRepo) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления записи файла: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *fileRepo) StoragePath(ctx context.Context, id int64) (string, error) {
	var path string
	err := r.db.QueryRow(ctx, `SELECT path FROM files WHERE id = $1`, id).Scan(&path)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("ошибка получения пути файла: %w", err)
	}
	return path, nil
}

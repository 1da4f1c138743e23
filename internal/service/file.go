// file.go — координатор согласованности файловой системы и метаданных.
// Файловая система и база — два независимо отказывающих ресурса без
// общей транзакции. Порядок операций смещает риск в сторону дисковой
// гигиены: запись, на которую указывает строка базы, всегда существует
// на диске, ценой возможного осиротевшего файла при сбое вставки
// (сирота здесь компенсируется удалением) или устаревшего файла при
// холостом обновлении.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/gofilebox/internal/domain/model"
	"github.com/bigkaa/gofilebox/internal/repository"
	"github.com/bigkaa/gofilebox/internal/storage/filestore"
)

// Параметры пагинации списка по умолчанию.
const (
	DefaultPageSize = 10
	DefaultPage     = 1
)

// Prometheus-метрики файловых операций.
var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fb_uploads_total",
		Help: "Общее количество загрузок файлов (по статусу).",
	}, []string{"status"})

	uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fb_upload_bytes_total",
		Help: "Общее количество принятых байт при загрузке.",
	})

	deletesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fb_file_deletes_total",
		Help: "Общее количество удалённых файлов (строка и байты).",
	})
)

// UploadParams — параметры загрузки или замены файла.
type UploadParams struct {
	// Reader — источник байтов файла.
	Reader io.Reader
	// OriginalFilename — имя файла, присланное клиентом.
	OriginalFilename string
	// MimeType — MIME-тип из multipart-заголовка.
	MimeType string
}

// DownloadInfo — компоненты для потоковой отдачи файла.
type DownloadInfo struct {
	// RootDir — абсолютный путь директории данных.
	RootDir string
	// FileBaseName — имя файла внутри RootDir.
	FileBaseName string
	// FullPath — абсолютный путь файла.
	FullPath string
	// DisplayName — оригинальное имя для Content-Disposition.
	DisplayName string
}

// FileService — координатор файловых операций.
type FileService struct {
	repo   repository.FileRepository
	store  *filestore.FileStore
	cache  *CacheService
	logger *slog.Logger
}

// NewFileService создаёт координатор файловых операций.
func NewFileService(repo repository.FileRepository, store *filestore.FileStore, cache *CacheService, logger *slog.Logger) *FileService {
	return &FileService{
		repo:   repo,
		store:  store,
		cache:  cache,
		logger: logger.With(slog.String("component", "file_service")),
	}
}

// Upload сохраняет новый файл: сначала байты на диск под свежим
// непредсказуемым именем, затем строка метаданных. Если вставка
// не удалась, осиротевший файл компенсационно удаляется.
func (s *FileService) Upload(ctx context.Context, params UploadParams) (*model.FileRecord, error) {
	saved, err := s.store.Save(params.Reader)
	if err != nil {
		uploadsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Ошибка записи файла на диск", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	rec := buildMetadata(params, saved)
	id, err := s.repo.Create(ctx, rec)
	if err != nil {
		// Компенсация: строка не создана, файл на диске никому не нужен
		if rmErr := s.store.Delete(saved.StoragePath); rmErr != nil {
			s.logger.Error("Осиротевший файл не удалён",
				slog.String("path", saved.StoragePath),
				slog.String("error", rmErr.Error()),
			)
		}
		uploadsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Ошибка вставки метаданных", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	fresh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		uploadsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Ошибка чтения созданной записи", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	s.cache.Set(fresh.ID, fresh)
	uploadsTotal.WithLabelValues("ok").Inc()
	uploadBytesTotal.Add(float64(saved.Size))

	s.logger.Info("Файл загружен",
		slog.Int64("file_id", fresh.ID),
		slog.String("name", fresh.Name),
		slog.Int64("size", fresh.Size),
	)
	return fresh, nil
}

// Get возвращает метаданные файла по id (кэш, затем база).
func (s *FileService) Get(ctx context.Context, id int64) (*model.FileRecord, error) {
	if rec, ok := s.cache.Get(id); ok {
		return rec, nil
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errNotFound("file by id %d not found", id)
		}
		s.logger.Error("Ошибка получения записи файла", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	s.cache.Set(id, rec)
	return rec, nil
}

// List возвращает страницу метаданных по возрастанию id.
// pageSize и pageNumber меньше либо равные нулю заменяются значениями
// по умолчанию (10 и 1) — разрешительное поведение legacy-контракта.
func (s *FileService) List(ctx context.Context, pageSize, pageNumber int) ([]*model.FileRecord, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageNumber <= 0 {
		pageNumber = DefaultPage
	}
	offset := pageSize * (pageNumber - 1)

	records, err := s.repo.List(ctx, pageSize, offset)
	if err != nil {
		s.logger.Error("Ошибка получения списка файлов", slog.String("error", err.Error()))
		return nil, errInternal()
	}
	if records == nil {
		records = []*model.FileRecord{}
	}
	return records, nil
}

// Replace заменяет содержимое и метаданные файла.
//
// Порядок фиксирован: старая строка читается до любой мутации, чтобы
// путь старого файла был известен заранее; новые байты пишутся на диск;
// строка обновляется; старый файл удаляется только если обновление
// затронуло хотя бы одну строку. Ноль затронутых строк означает, что
// запись исчезла конкурентно — свежезаписанный файл компенсационно
// удаляется, старый файл не трогается, возвращается "не найдено".
func (s *FileService) Replace(ctx context.Context, id int64, params UploadParams) (*model.FileRecord, error) {
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errNotFound("file by id %d not found", id)
		}
		s.logger.Error("Ошибка чтения старой записи", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	saved, err := s.store.Save(params.Reader)
	if err != nil {
		s.logger.Error("Ошибка записи нового файла", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	rec := buildMetadata(params, saved)
	affected, err := s.repo.Update(ctx, id, rec)
	if err != nil {
		if rmErr := s.store.Delete(saved.StoragePath); rmErr != nil {
			s.logger.Error("Новый файл не удалён после сбоя обновления",
				slog.String("path", saved.StoragePath),
				slog.String("error", rmErr.Error()),
			)
		}
		s.logger.Error("Ошибка обновления метаданных", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	if affected == 0 {
		if rmErr := s.store.Delete(saved.StoragePath); rmErr != nil {
			s.logger.Error("Новый файл не удалён после холостого обновления",
				slog.String("path", saved.StoragePath),
				slog.String("error", rmErr.Error()),
			)
		}
		s.cache.Delete(id)
		return nil, errNotFound("file by id %d not found", id)
	}

	// Строка указывает на новый файл — старые байты больше не нужны
	if old.StoragePath != saved.StoragePath && s.store.Exists(old.StoragePath) {
		if rmErr := s.store.Delete(old.StoragePath); rmErr != nil {
			s.logger.Error("Старый файл не удалён",
				slog.String("path", old.StoragePath),
				slog.String("error", rmErr.Error()),
			)
		}
	}

	fresh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Ошибка чтения обновлённой записи", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	s.cache.Set(id, fresh)
	s.logger.Info("Файл заменён", slog.Int64("file_id", id), slog.String("name", fresh.Name))
	return fresh, nil
}

// DeleteResult — результат удаления в legacy-формате.
type DeleteResult struct {
	DeletedRows int64 `json:"deletedRows"`
}

// Delete удаляет файл: путь читается до удаления строки (после него
// путь из базы не восстановить), затем удаляется строка, и только при
// затронутых строках — физический файл, если он существует.
// Несуществующий id — не ошибка: возвращается ноль удалённых строк.
func (s *FileService) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	path, err := s.repo.StoragePath(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Ошибка получения пути файла", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Ошибка удаления записи файла", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	if affected > 0 {
		s.cache.Delete(id)
		if path != "" && s.store.Exists(path) {
			if rmErr := s.store.Delete(path); rmErr != nil {
				s.logger.Error("Физический файл не удалён",
					slog.String("path", path),
					slog.String("error", rmErr.Error()),
				)
			}
		}
		deletesTotal.Inc()
		s.logger.Info("Файл удалён", slog.Int64("file_id", id))
	}

	return &DeleteResult{DeletedRows: affected}, nil
}

// PrepareDownload разрешает путь файла относительно директории данных
// и возвращает компоненты для потоковой отдачи. Пути за пределами
// корня и dot-файлы отвергаются на границе.
func (s *FileService) PrepareDownload(ctx context.Context, id int64) (*DownloadInfo, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fullPath, err := s.store.FullPath(rec.StoragePath)
	if err != nil {
		s.logger.Warn("Отказ в выдаче файла по небезопасному пути",
			slog.Int64("file_id", id),
			slog.String("path", rec.StoragePath),
		)
		return nil, errForbidden("access denied")
	}
	if !s.store.Exists(rec.StoragePath) {
		// Нарушение инварианта «строка влечёт файл»
		s.logger.Error("Запись указывает на отсутствующий файл",
			slog.Int64("file_id", id),
			slog.String("path", rec.StoragePath),
		)
		return nil, errNotFound("file by id %d not found", id)
	}

	return &DownloadInfo{
		RootDir:      filepath.Dir(fullPath),
		FileBaseName: filepath.Base(fullPath),
		FullPath:     fullPath,
		DisplayName:  rec.Name,
	}, nil
}

// buildMetadata собирает метаданные для строки базы из параметров
// загрузки и результата записи на диск. Расширение — сегмент после
// последней точки, пустое при её отсутствии.
func buildMetadata(params UploadParams, saved *filestore.SaveResult) *model.FileRecord {
	extension := ""
	if idx := strings.LastIndex(params.OriginalFilename, "."); idx >= 0 && idx < len(params.OriginalFilename)-1 {
		extension = params.OriginalFilename[idx+1:]
	}

	mimeType := params.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &model.FileRecord{
		Name:        params.OriginalFilename,
		Extension:   extension,
		MimeType:    mimeType,
		Size:        saved.Size,
		StoragePath: saved.StoragePath,
	}
}

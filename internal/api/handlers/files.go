// files.go — обработчики файловых операций.
// GET /file/list, POST /file/upload, GET /file/{id},
// GET /file/download/{id}, PUT /file/update/{id}, DELETE /file/delete/{id}.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/gofilebox/internal/api/errors"
	"github.com/bigkaa/gofilebox/internal/service"
	"github.com/bigkaa/gofilebox/internal/validation"
)

// uploadFieldName — имя multipart-поля с файлом, закреплено контрактом.
const uploadFieldName = "uploadFile"

// maxMultipartMemory — порог буферизации multipart-формы в памяти,
// остальное уходит во временные файлы.
const maxMultipartMemory = 32 << 20

// FileHandler — обработчики файловых операций.
type FileHandler struct {
	files  *service.FileService
	logger *slog.Logger
}

// NewFileHandler создаёт обработчик файловых операций.
func NewFileHandler(files *service.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		files:  files,
		logger: logger.With(slog.String("component", "file_handler")),
	}
}

// List — реализация GET /file/list?list_size=N&page=M.
// Нечисловые и отрицательные значения заменяются значениями по умолчанию.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	pageSize := queryInt(r, "list_size", service.DefaultPageSize)
	page := queryInt(r, "page", service.DefaultPage)

	records, err := h.files.List(r.Context(), pageSize, page)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	apierrors.WriteSuccess(w, http.StatusOK, records)
}

// Upload — реализация POST /file/upload.
// Файл передаётся в multipart-поле uploadFile.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	params, cleanup, ok := h.multipartParams(w, r)
	if !ok {
		return
	}
	defer cleanup()

	rec, err := h.files.Upload(r.Context(), params)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	apierrors.WriteSuccess(w, http.StatusCreated, rec)
}

// Get — реализация GET /file/{id}. Возвращает метаданные файла.
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := fileID(w, r)
	if !ok {
		return
	}

	rec, err := h.files.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	apierrors.WriteSuccess(w, http.StatusOK, rec)
}

// Download — реализация GET /file/download/{id}.
// Отдаёт байты файла с оригинальным именем в Content-Disposition.
// http.ServeFile обрабатывает Range-запросы и Content-Length.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := fileID(w, r)
	if !ok {
		return
	}

	info, err := h.files.PrepareDownload(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.DisplayName))
	http.ServeFile(w, r, info.FullPath)
}

// Update — реализация PUT /file/update/{id}.
// Заменяет байты и метаданные файла новым содержимым из uploadFile.
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := fileID(w, r)
	if !ok {
		return
	}

	params, cleanup, ok := h.multipartParams(w, r)
	if !ok {
		return
	}
	defer cleanup()

	rec, err := h.files.Replace(r.Context(), id, params)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	apierrors.WriteSuccess(w, http.StatusOK, rec)
}

// Delete — реализация DELETE /file/delete/{id}.
// Возвращает количество удалённых строк; несуществующий id — ноль.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := fileID(w, r)
	if !ok {
		return
	}

	result, err := h.files.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	apierrors.WriteSuccess(w, http.StatusOK, result)
}

// fileID извлекает и валидирует id файла из пути запроса.
// Формат проверяется разрешительно (любое число), затем id приводится
// к целому: дробные значения корректны синтаксически, но ни одной
// записи не соответствуют.
func fileID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if err := validation.FileID(raw); err != nil {
		apierrors.ValidationError(w, err.Error())
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		apierrors.NotFound(w, fmt.Sprintf("file by id %s not found", raw))
		return 0, false
	}
	return id, true
}

// multipartParams извлекает файл из multipart-поля uploadFile.
// Вторым значением возвращается функция освобождения ресурсов формы,
// её нужно вызвать после завершения работы с Reader.
// При провале пишет ответ и возвращает ok=false.
func (h *FileHandler) multipartParams(w http.ResponseWriter, r *http.Request) (service.UploadParams, func(), bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		apierrors.ValidationError(w, "uploadFile form field is required")
		return service.UploadParams{}, nil, false
	}

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		apierrors.ValidationError(w, "uploadFile form field is required")
		return service.UploadParams{}, nil, false
	}

	cleanup := func() {
		_ = file.Close()
	}
	return service.UploadParams{
		Reader:           file,
		OriginalFilename: header.Filename,
		MimeType:         header.Header.Get("Content-Type"),
	}, cleanup, true
}

// queryInt читает числовой query-параметр, возвращая def при
// отсутствии или нечисловом значении.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

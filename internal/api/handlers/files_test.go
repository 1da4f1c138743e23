package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/gofilebox/internal/domain/model"
	"github.com/bigkaa/gofilebox/internal/repository"
	"github.com/bigkaa/gofilebox/internal/service"
	"github.com/bigkaa/gofilebox/internal/storage/filestore"
)

// fakeFileRepo — in-memory реализация repository.FileRepository.
type fakeFileRepo struct {
	nextID  int64
	records map[int64]*model.FileRecord
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{nextID: 1, records: make(map[int64]*model.FileRecord)}
}

func (f *fakeFileRepo) Create(_ context.Context, rec *model.FileRecord) (int64, error) {
	id := f.nextID
	f.nextID++
	stored := *rec
	stored.ID = id
	stored.UploadedAt = time.Now()
	f.records[id] = &stored
	return id, nil
}

func (f *fakeFileRepo) GetByID(_ context.Context, id int64) (*model.FileRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeFileRepo) List(_ context.Context, limit, offset int) ([]*model.FileRecord, error) {
	ids := make([]int64, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var result []*model.FileRecord
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(result) == limit {
			break
		}
		copied := *f.records[id]
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeFileRepo) Update(_ context.Context, id int64, rec *model.FileRecord) (int64, error) {
	old, ok := f.records[id]
	if !ok {
		return 0, nil
	}
	stored := *rec
	stored.ID = id
	stored.UploadedAt = old.UploadedAt
	f.records[id] = &stored
	return 1, nil
}

func (f *fakeFileRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := f.records[id]; !ok {
		return 0, nil
	}
	delete(f.records, id)
	return 1, nil
}

func (f *fakeFileRepo) StoragePath(_ context.Context, id int64) (string, error) {
	rec, ok := f.records[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return rec.StoragePath, nil
}

// filesTestEnv — окружение теста файловых операций.
type filesTestEnv struct {
	router *chi.Mux
	repo   *fakeFileRepo
	store  *filestore.FileStore
}

func newFilesTestEnv(t *testing.T) *filesTestEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newFakeFileRepo()
	store, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("не удалось создать хранилище: %v", err)
	}
	cache := service.NewCacheService(16, time.Minute)
	fileService := service.NewFileService(repo, store, cache, logger)
	handler := NewFileHandler(fileService, logger)

	router := chi.NewRouter()
	router.Get("/file/list", handler.List)
	router.Post("/file/upload", handler.Upload)
	router.Get("/file/download/{id}", handler.Download)
	router.Put("/file/update/{id}", handler.Update)
	router.Delete("/file/delete/{id}", handler.Delete)
	router.Get("/file/{id}", handler.Get)

	return &filesTestEnv{router: router, repo: repo, store: store}
}

// multipartBody собирает multipart-форму с полем uploadFile.
func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("uploadFile", filename)
	if err != nil {
		t.Fatalf("ошибка создания multipart-поля: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("ошибка записи содержимого: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("ошибка закрытия формы: %v", err)
	}
	return body, writer.FormDataContentType()
}

func (env *filesTestEnv) doJSON(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("невалидный JSON-ответ: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, resp
}

func TestUploadEndpoint(t *testing.T) {
	env := newFilesTestEnv(t)

	body, contentType := multipartBody(t, "report.pdf", "pdf bytes")
	req := httptest.NewRequest(http.MethodPost, "/file/upload", body)
	req.Header.Set("Content-Type", contentType)

	code, resp := env.doJSON(t, req)
	if code != http.StatusCreated {
		t.Fatalf("код = %d, ожидался 201", code)
	}
	if resp["status"] != "success" {
		t.Errorf("status = %v, ожидался success", resp["status"])
	}
	data, _ := resp["data"].(map[string]any)
	if data["name"] != "report.pdf" {
		t.Errorf("data.name = %v, ожидался report.pdf", data["name"])
	}
	if data["extension"] != "pdf" {
		t.Errorf("data.extension = %v, ожидался pdf", data["extension"])
	}
	if data["size"] != float64(9) {
		t.Errorf("data.size = %v, ожидался 9", data["size"])
	}
}

func TestUploadEndpoint_MissingField(t *testing.T) {
	env := newFilesTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/file/upload", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")

	code, resp := env.doJSON(t, req)
	if code != http.StatusMethodNotAllowed {
		t.Fatalf("код = %d, ожидался 405", code)
	}
	if resp["status"] != "fail" {
		t.Errorf("status = %v, ожидался fail", resp["status"])
	}
}

func TestGetEndpoint(t *testing.T) {
	env := newFilesTestEnv(t)
	id, _ := env.repo.Create(context.Background(), &model.FileRecord{
		Name: "a.txt", Extension: "txt", MimeType: "text/plain", Size: 3, StoragePath: "aa",
	})

	req := httptest.NewRequest(http.MethodGet, "/file/1", nil)
	code, resp := env.doJSON(t, req)
	if code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200", code)
	}
	data, _ := resp["data"].(map[string]any)
	if data["id"] != float64(id) {
		t.Errorf("data.id = %v, ожидался %d", data["id"], id)
	}
}

func TestGetEndpoint_NotFound(t *testing.T) {
	env := newFilesTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/file/42", nil)
	code, resp := env.doJSON(t, req)
	if code != http.StatusNotFound {
		t.Fatalf("код = %d, ожидался 404", code)
	}
	if resp["message"] != "file by id 42 not found" {
		t.Errorf("message = %v", resp["message"])
	}
}

func TestGetEndpoint_InvalidID(t *testing.T) {
	env := newFilesTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/file/abc", nil)
	code, resp := env.doJSON(t, req)
	if code != http.StatusMethodNotAllowed {
		t.Fatalf("код = %d, ожидался 405", code)
	}
	if resp["message"] != "expected id of number type" {
		t.Errorf("message = %v", resp["message"])
	}
}

func TestListEndpoint(t *testing.T) {
	env := newFilesTestEnv(t)
	for i := 0; i < 15; i++ {
		env.repo.Create(context.Background(), &model.FileRecord{Name: "f", StoragePath: "p"})
	}

	// Значения по умолчанию: 10 записей первой страницы
	req := httptest.NewRequest(http.MethodGet, "/file/list", nil)
	code, resp := env.doJSON(t, req)
	if code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200", code)
	}
	data, _ := resp["data"].([]any)
	if len(data) != 10 {
		t.Errorf("страница по умолчанию: %d записей, ожидалось 10", len(data))
	}

	// Вторая страница — остаток
	req = httptest.NewRequest(http.MethodGet, "/file/list?list_size=10&page=2", nil)
	_, resp = env.doJSON(t, req)
	data, _ = resp["data"].([]any)
	if len(data) != 5 {
		t.Errorf("вторая страница: %d записей, ожидалось 5", len(data))
	}

	// Нечисловые параметры заменяются значениями по умолчанию
	req = httptest.NewRequest(http.MethodGet, "/file/list?list_size=abc&page=xyz", nil)
	code, resp = env.doJSON(t, req)
	if code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200", code)
	}
	data, _ = resp["data"].([]any)
	if len(data) != 10 {
		t.Errorf("нечисловые параметры: %d записей, ожидалось 10", len(data))
	}
}

func TestListEndpoint_Empty(t *testing.T) {
	env := newFilesTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/file/list", nil)
	code, resp := env.doJSON(t, req)
	if code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200", code)
	}
	data, ok := resp["data"].([]any)
	if !ok {
		t.Fatalf("data = %v, ожидался массив", resp["data"])
	}
	if len(data) != 0 {
		t.Errorf("пустая база: %d записей", len(data))
	}
}

func TestUpdateEndpoint(t *testing.T) {
	env := newFilesTestEnv(t)

	// Загружаем исходный файл через API, чтобы байты лежали на диске
	body, contentType := multipartBody(t, "old.txt", "old")
	req := httptest.NewRequest(http.MethodPost, "/file/upload", body)
	req.Header.Set("Content-Type", contentType)
	code, _ := env.doJSON(t, req)
	if code != http.StatusCreated {
		t.Fatalf("подготовка: загрузка вернула %d", code)
	}

	body, contentType = multipartBody(t, "new.txt", "new bytes")
	req = httptest.NewRequest(http.MethodPut, "/file/update/1", body)
	req.Header.Set("Content-Type", contentType)

	code, resp := env.doJSON(t, req)
	if code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200", code)
	}
	data, _ := resp["data"].(map[string]any)
	if data["name"] != "new.txt" {
		t.Errorf("data.name = %v, ожидался new.txt", data["name"])
	}
}

func TestDeleteEndpoint(t *testing.T) {
	env := newFilesTestEnv(t)
	env.repo.Create(context.Background(), &model.FileRecord{Name: "a.txt", StoragePath: "aa"})

	req := httptest.NewRequest(http.MethodDelete, "/file/delete/1", nil)
	code, resp := env.doJSON(t, req)
	if code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200", code)
	}
	data, _ := resp["data"].(map[string]any)
	if data["deletedRows"] != float64(1) {
		t.Errorf("data.deletedRows = %v, ожидался 1", data["deletedRows"])
	}

	// Несуществующий id — успех с нулём удалённых строк
	req = httptest.NewRequest(http.MethodDelete, "/file/delete/99", nil)
	code, resp = env.doJSON(t, req)
	if code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200", code)
	}
	data, _ = resp["data"].(map[string]any)
	if data["deletedRows"] != float64(0) {
		t.Errorf("data.deletedRows = %v, ожидался 0", data["deletedRows"])
	}
}

func TestDownloadEndpoint(t *testing.T) {
	env := newFilesTestEnv(t)

	body, contentType := multipartBody(t, "doc.pdf", "pdf bytes")
	req := httptest.NewRequest(http.MethodPost, "/file/upload", body)
	req.Header.Set("Content-Type", contentType)
	code, _ := env.doJSON(t, req)
	if code != http.StatusCreated {
		t.Fatalf("подготовка: загрузка вернула %d", code)
	}

	req = httptest.NewRequest(http.MethodGet, "/file/download/1", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200", rec.Code)
	}
	if got := rec.Body.String(); got != "pdf bytes" {
		t.Errorf("тело = %q, ожидалось pdf bytes", got)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if disposition != `attachment; filename="doc.pdf"` {
		t.Errorf("Content-Disposition = %q", disposition)
	}
}

func TestDownloadEndpoint_NotFound(t *testing.T) {
	env := newFilesTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/file/download/7", nil)
	code, resp := env.doJSON(t, req)
	if code != http.StatusNotFound {
		t.Fatalf("код = %d, ожидался 404", code)
	}
	if resp["status"] != "fail" {
		t.Errorf("status = %v, ожидался fail", resp["status"])
	}
}

// Пакет filestore — операции с физическими файлами на диске.
// Streaming-запись во временный файл с атомарным rename, чтение,
// удаление и проверка существования. Пути всегда относительны
// корневой директории данных и не могут выходить за её пределы.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore — управление физическими файлами на диске.
type FileStore struct {
	// dataDir — корневая директория хранения файлов (FB_DATA_DIR)
	dataDir string
}

// SaveResult — результат сохранения файла на диск.
type SaveResult struct {
	// StoragePath — относительный путь файла в dataDir
	StoragePath string
	// FullPath — абсолютный путь файла на диске
	FullPath string
	// Size — размер записанных данных в байтах
	Size int64
}

// New создаёт новый FileStore. Создаёт директорию, если она не существует.
func New(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию данных %s: %w", dataDir, err)
	}
	return &FileStore{dataDir: dataDir}, nil
}

// Save записывает данные из reader на диск под новым случайным именем.
// Имя — 32 hex-символа из UUID, без расширения: содержимое имени
// непредсказуемо и коллизии исключены.
//
// Паттерн: temp файл → запись → fsync → atomic rename.
// При ошибке temp файл удаляется.
func (fs *FileStore) Save(reader io.Reader) (*SaveResult, error) {
	storageName := generateStorageName()
	fullPath := filepath.Join(fs.dataDir, storageName)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	size, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return &SaveResult{
		StoragePath: storageName,
		FullPath:    fullPath,
		Size:        size,
	}, nil
}

// Open открывает файл для чтения. Вызывающий код обязан закрыть *os.File.
func (fs *FileStore) Open(storagePath string) (*os.File, error) {
	fullPath, err := fs.resolve(storagePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("файл не найден: %s", storagePath)
		}
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", storagePath, err)
	}
	return f, nil
}

// FullPath возвращает абсолютный путь к файлу на диске.
// Ошибка — если относительный путь выходит за пределы dataDir.
func (fs *FileStore) FullPath(storagePath string) (string, error) {
	return fs.resolve(storagePath)
}

// Delete удаляет файл с диска. Возвращает nil, если файл уже не существует.
func (fs *FileStore) Delete(storagePath string) error {
	fullPath, err := fs.resolve(storagePath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла %s: %w", storagePath, err)
	}
	return nil
}

// Exists проверяет существование обычного файла на диске.
func (fs *FileStore) Exists(storagePath string) bool {
	fullPath, err := fs.resolve(storagePath)
	if err != nil {
		return false
	}
	info, err := os.Stat(fullPath)
	return err == nil && info.Mode().IsRegular()
}

// DataDir возвращает путь к директории данных.
func (fs *FileStore) DataDir() string {
	return fs.dataDir
}

// resolve превращает относительный путь в абсолютный, отвергая
// пустые пути, dot-файлы и выход за пределы dataDir.
func (fs *FileStore) resolve(storagePath string) (string, error) {
	if storagePath == "" {
		return "", fmt.Errorf("пустой путь файла")
	}
	if !filepath.IsLocal(storagePath) {
		return "", fmt.Errorf("путь %q выходит за пределы директории данных", storagePath)
	}
	if strings.HasPrefix(filepath.Base(storagePath), ".") {
		return "", fmt.Errorf("доступ к dot-файлам запрещён: %s", storagePath)
	}
	return filepath.Join(fs.dataDir, storagePath), nil
}

// generateStorageName генерирует имя файла для хранения на диске:
// UUID без дефисов, 32 hex-символа.
func generateStorageName() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

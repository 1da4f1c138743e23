package model

import "time"

// FileRecord — метаданные файла в таблице files.
// Инвариант: пока запись существует, по StoragePath относительно
// корневой директории данных лежит физический файл.
// JSON-имена полей совпадают с legacy-контрактом API.
type FileRecord struct {
	// ID — идентификатор, назначается базой (serial).
	ID int64 `json:"id"`
	// Name — оригинальное имя файла при загрузке.
	Name string `json:"name"`
	// Extension — расширение без точки (пустое, если его нет).
	Extension string `json:"extension"`
	// MimeType — MIME-тип из multipart-заголовка.
	MimeType string `json:"mimetype"`
	// Size — размер файла в байтах.
	Size int64 `json:"size"`
	// UploadedAt — время загрузки (назначается базой).
	UploadedAt time.Time `json:"uploaded"`
	// StoragePath — относительный путь файла в директории данных.
	StoragePath string `json:"path"`
}

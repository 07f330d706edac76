package storage

import (
	"context"
	"io"
)

// FileUploader — объектное хранилище для артефактов движка. Сейчас через
// него уходят только снимки завершённых сеток; nil-uploader означает, что
// архивирование выключено.
type FileUploader interface {
	// Upload кладёт объект под ключом и возвращает его координаты.
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// UploadResult возвращается хранилищем после успешной загрузки.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

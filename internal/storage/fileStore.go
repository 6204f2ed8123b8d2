package storage

import (
	"context"
	"errors"
)

var (
	ErrObjectKey = errors.New("cannot resolve object key from url")
	ErrDownload  = errors.New("download failed")
	ErrTooLarge  = errors.New("file exceeds the size limit")
)

type DownloadedFile struct {
	Data        []byte
	ContentType string
}

// FileStore is the blob storage the pipeline reads uploads from
type FileStore interface {
	Upload(ctx context.Context, data []byte, fileName, folder, contentType string) (string, error)
	Download(ctx context.Context, fileURL string) (DownloadedFile, error)
	Delete(ctx context.Context, fileURL string) error
}

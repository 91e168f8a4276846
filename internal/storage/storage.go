package storage

import "context"

// ObjectInfo describes one archived object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage is the minimal S3-compatible surface the upload archive
// needs. Archival is best-effort; callers log failures and move on.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, data []byte, contentType string) error
	DownloadObject(ctx context.Context, key string, destPath string) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

type noopStorage struct{}

// NewNoopStorage is used when archival is disabled.
func NewNoopStorage() ObjectStorage {
	return noopStorage{}
}

func (noopStorage) UploadObject(context.Context, string, []byte, string) error { return nil }
func (noopStorage) DownloadObject(context.Context, string, string) error { return nil }
func (noopStorage) ListObjects(context.Context, string) ([]ObjectInfo, error) {
	return []ObjectInfo{}, nil
}

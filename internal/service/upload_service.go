package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nhiennh/supply-chain-analytics/internal/cache"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/nhiennh/supply-chain-analytics/internal/storage"
	"github.com/rs/zerolog/log"
)

type UploadService struct {
	uploadDir string
	provider  *DatasetProvider
	cache     cache.ResultCache
	archive   storage.ObjectStorage
}

func NewUploadService(uploadDir string, provider *DatasetProvider, cacheImpl cache.ResultCache, archive storage.ObjectStorage) *UploadService {
	if cacheImpl == nil {
		cacheImpl = cache.NewMemoryCache()
	}
	if archive == nil {
		archive = storage.NewNoopStorage()
	}
	return &UploadService{
		uploadDir: uploadDir,
		provider:  provider,
		cache:     cacheImpl,
		archive:   archive,
	}
}

// SaveCSV stores an uploaded CSV in the upload directory and invalidates
// every derived result. Archival to object storage is best-effort.
func (s *UploadService) SaveCSV(ctx context.Context, filename string, src io.Reader) (*domain.UploadedFile, error) {
	name := filepath.Base(filename)
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return nil, domain.NewDataError("only .csv files are accepted, got %q", name)
	}

	destPath := filepath.Join(s.uploadDir, name)
	dest, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	defer dest.Close()

	size, err := io.Copy(dest, src)
	if err != nil {
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	s.provider.Invalidate()
	for _, prefix := range cache.Prefixes {
		if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("cache invalidation failed")
		}
	}

	if data, err := os.ReadFile(destPath); err == nil {
		if err := s.archive.UploadObject(ctx, name, data, "text/csv"); err != nil {
			log.Warn().Err(err).Str("file", name).Msg("archive upload failed")
		}
	}

	log.Info().Str("file", name).Int64("size", size).Msg("csv uploaded")
	return &domain.UploadedFile{Filename: name, Path: destPath, Size: size}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"alcyxob/sports-library/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrBackupsDisabled = errors.New("backup storage is not configured")
	ErrBackupNotFound  = errors.New("backup not found")
)

const (
	backupContentType = "application/bson"
	backupPrefix      = "backups/"
)

// BackupInfo describes an uploaded snapshot.
type BackupInfo struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BackupService interface {
	CreateBackup(ctx context.Context) (*BackupInfo, error)
	RestoreBackup(ctx context.Context, objectKey string) error
	DeleteBackup(ctx context.Context, objectKey string) error
}

type backupService struct {
	lib         *Library
	fileStorage storage.FileStorage // nil when backups are disabled
	logger      *zap.Logger
}

func NewBackupService(lib *Library, fileStorage storage.FileStorage, logger *zap.Logger) BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &backupService{lib: lib, fileStorage: fileStorage, logger: logger}
}

// CreateBackup snapshots the library, uploads it and returns a temporary download URL.
func (s *backupService) CreateBackup(ctx context.Context) (*BackupInfo, error) {
	if s.fileStorage == nil {
		return nil, ErrBackupsDisabled
	}
	archive, err := s.lib.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	objectKey := path.Join(backupPrefix, fmt.Sprintf("%s-%s.bson", now.Format("20060102T150405Z"), uuid.NewString()))
	if err := s.fileStorage.PutObject(ctx, objectKey, backupContentType, archive); err != nil {
		return nil, fmt.Errorf("upload backup: %w", err)
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign backup: %w", err)
	}
	s.logger.Info("backup created", zap.String("key", objectKey), zap.Int("bytes", len(archive)))
	return &BackupInfo{ObjectKey: objectKey, DownloadURL: url, Size: len(archive), CreatedAt: now}, nil
}

// RestoreBackup replaces the library contents with an uploaded snapshot.
func (s *backupService) RestoreBackup(ctx context.Context, objectKey string) error {
	if s.fileStorage == nil {
		return ErrBackupsDisabled
	}
	archive, err := s.fileStorage.GetObject(ctx, objectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("download backup: %w", err)
	}
	return s.lib.Restore(ctx, archive)
}

// DeleteBackup removes an uploaded snapshot. Only keys written by CreateBackup
// are accepted.
func (s *backupService) DeleteBackup(ctx context.Context, objectKey string) error {
	if s.fileStorage == nil {
		return ErrBackupsDisabled
	}
	if !strings.HasPrefix(objectKey, backupPrefix) || path.Clean(objectKey) != objectKey {
		return ErrBackupNotFound
	}
	if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("delete backup: %w", err)
	}
	s.logger.Info("backup deleted", zap.String("key", objectKey))
	return nil
}

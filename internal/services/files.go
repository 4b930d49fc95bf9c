package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/forma-studio/forma-portal/internal/storage"
	"gorm.io/gorm"
)

// FileService manages lead attachments. The DB row is the source of truth
// for "does this file exist"; backing-object cleanup is best-effort.
type FileService struct {
	DB    *gorm.DB
	Store storage.ObjectStore // nil when storage is not configured
}

func NewFileService(db *gorm.DB, store storage.ObjectStore) *FileService {
	return &FileService{DB: db, Store: store}
}

// Append registers one uploaded attachment on a request. Key-prefix
// ownership is checked at the handler boundary; this validates the file
// itself.
func (s *FileService) Append(ctx context.Context, requestID string, in *UploadedFileInput) (*models.RequestFile, error) {
	if in.ObjectKey == "" || in.FileName == "" || in.FileType == "" || in.SizeBytes == 0 {
		return nil, invalid("file", "ورودی فایل ناقص است.")
	}
	if !storage.IsAllowedMimeType(in.FileType, storage.RequestAllowedMimeTypes) {
		return nil, invalid("fileType", "نوع فایل مجاز نیست.")
	}
	if in.SizeBytes <= 0 || in.SizeBytes > storage.MaxUploadSizeBytes {
		return nil, invalid("sizeBytes", "حجم فایل نامعتبر است.")
	}

	file := models.RequestFile{
		RequestID: requestID,
		ObjectKey: in.ObjectKey,
		FileName:  in.FileName,
		FileType:  in.FileType,
		SizeBytes: in.SizeBytes,
	}
	if err := s.DB.WithContext(ctx).Create(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// Get loads a file with its owning request for boundary authorization.
func (s *FileService) Get(ctx context.Context, id string) (*models.RequestFile, error) {
	var file models.RequestFile
	err := s.DB.WithContext(ctx).Preload("Request").First(&file, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

// Remove deletes the DB row, then attempts to delete the backing object.
// Object-store failure is logged and swallowed: the row is already gone
// and the file no longer exists as far as users are concerned. Keys that
// are absolute URLs have no backing object of ours.
func (s *FileService) Remove(ctx context.Context, file *models.RequestFile) error {
	if err := s.DB.WithContext(ctx).Delete(&models.RequestFile{}, "id = ?", file.ID).Error; err != nil {
		return err
	}

	if s.Store == nil || storage.IsAbsoluteURL(file.ObjectKey) {
		return nil
	}
	if err := s.Store.Delete(ctx, file.ObjectKey); err != nil {
		log.Printf("file %s: object cleanup failed for %s: %v", file.ID, file.ObjectKey, err)
	}
	return nil
}

// DownloadURL resolves the location a caller should be redirected to:
// the raw key when it is already an absolute URL, otherwise a short-lived
// presigned GET.
func (s *FileService) DownloadURL(ctx context.Context, file *models.RequestFile) (string, error) {
	if storage.IsAbsoluteURL(file.ObjectKey) {
		return file.ObjectKey, nil
	}
	if s.Store == nil {
		return "", errors.New("object storage is not configured")
	}
	return s.Store.PresignDownload(ctx, file.ObjectKey, 120*time.Second)
}

// Package storage is the object-storage boundary: presigned uploads and
// downloads plus best-effort deletion. The database row is always the
// source of truth; a failed object delete is logged, never surfaced.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/forma-studio/forma-portal/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedUpload is a signed PUT target for a client-side upload.
type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// ObjectStore abstracts the S3-compatible backend.
type ObjectStore interface {
	PresignUpload(ctx context.Context, key string, ttl time.Duration) (PresignedUpload, error)
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// S3Store talks to any S3-compatible endpoint (MinIO, AWS, Liara, Arvan).
type S3Store struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewS3Store builds a store from configuration. Returns an error when the
// storage env vars are missing so the caller can run without uploads.
func NewS3Store(cfg *config.Config) (*S3Store, error) {
	if cfg.S3Endpoint == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, fmt.Errorf("object storage is not configured")
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.S3Endpoint, "https://"), "http://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return &S3Store{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}, nil
}

// PresignUpload signs a PUT for key valid for ttl.
func (s *S3Store) PresignUpload(ctx context.Context, key string, ttl time.Duration) (PresignedUpload, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, ttl)
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("presign upload: %w", err)
	}
	return PresignedUpload{UploadURL: u.String(), ObjectKey: key}, nil
}

// PresignDownload signs a GET for key valid for ttl.
func (s *S3Store) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u.String(), nil
}

// Delete removes the object behind key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the unauthenticated URL for a public asset.
func (s *S3Store) PublicURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.client.EndpointURL().String(), "/"), s.bucket, key)
}

package infra

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

const presignTTL = 15 * time.Minute

// ObjectStorage wraps the MinIO client used for evidencias. Objects are
// stored under generated names; the original filename lives only in the
// metadata row.
type ObjectStorage struct {
	client *minio.Client
	bucket string
}

func NewObjectStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ObjectStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket create: %w", err)
		}
		log.Info().Str("bucket", bucket).Msg("bucket de evidencias creado")
	}

	return &ObjectStorage{client: client, bucket: bucket}, nil
}

// Upload stores data under a generated object name and returns it.
func (s *ObjectStorage) Upload(ctx context.Context, folio, originalFilename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	objeto := fmt.Sprintf("%s/%s_%d%s", folio, uuid.New().String()[:8], time.Now().Unix(), ext)

	contentType := "application/octet-stream"
	switch ext {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".pdf":
		contentType = "application/pdf"
	}

	_, err := s.client.PutObject(ctx, s.bucket, objeto, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio upload: %w", err)
	}
	return objeto, nil
}

// PresignedURL returns a short-lived download URL for objeto.
func (s *ObjectStorage) PresignedURL(ctx context.Context, objeto string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objeto, presignTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("minio presign: %w", err)
	}
	return u.String(), nil
}

// Remove deletes objeto from the bucket.
func (s *ObjectStorage) Remove(ctx context.Context, objeto string) error {
	return s.client.RemoveObject(ctx, s.bucket, objeto, minio.RemoveObjectOptions{})
}

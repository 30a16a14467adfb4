package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"github.com/avelinof/linkup-be/internal/config"
)

// ImageUploader stores a client-submitted image and returns its public URL.
// Values that are already URLs (not data URIs) are returned unchanged, so
// clients may resubmit a previously uploaded image without re-encoding it.
type ImageUploader interface {
	Upload(ctx context.Context, data string) (string, error)
}

// ImageStore uploads profile and post images to an S3-compatible bucket.
type ImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewImageStore connects to the object store and ensures the bucket exists.
func NewImageStore(ctx context.Context, cfg *config.Config) (*ImageStore, error) {
	client, err := minio.New(cfg.ImageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ImageAccessKey, cfg.ImageSecretKey, ""),
		Secure: cfg.ImageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.ImageBucket)
	if err != nil {
		return nil, fmt.Errorf("check image bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.ImageBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create image bucket: %w", err)
		}
		log.Info().Str("bucket", cfg.ImageBucket).Msg("Created image bucket")
	}

	publicURL := cfg.ImagePublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.ImageUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.ImageEndpoint)
	}

	return &ImageStore{
		client:    client,
		bucket:    cfg.ImageBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload accepts a base64 data URI ("data:image/png;base64,...."), writes the
// decoded bytes to the bucket under a random name, and returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, data string) (string, error) {
	if !strings.HasPrefix(data, "data:") {
		return data, nil
	}

	contentType, payload, err := parseDataURI(data)
	if err != nil {
		return "", err
	}

	objectName := uuid.New().String() + extensionFor(contentType)
	_, err = s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
}

// parseDataURI splits a data URI into its media type and decoded payload.
func parseDataURI(data string) (string, []byte, error) {
	meta, encoded, found := strings.Cut(strings.TrimPrefix(data, "data:"), ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("malformed image data URI")
	}

	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("decode image payload: %w", err)
	}
	return contentType, payload, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}

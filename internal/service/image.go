package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/plateful/plateful-backend/config"
)

// maxImageBytes caps uploaded images at 5 MiB.
const maxImageBytes = 5 << 20

// s3UploadTimeout bounds each object-storage call.
const s3UploadTimeout = 30 * time.Second

// allowedImageTypes is the fixed set of accepted raster formats.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// S3ImageStore uploads images to an S3 bucket with public-read objects.
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// LocalImageStore writes images to a directory on local disk, served as
// static files. Used in the single-host deployment mode.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{dir: dir, baseURL: baseURL}
}

// NewImageStore picks the storage backend from deployment config.
func NewImageStore(ctx context.Context, cfg *config.Config) (IImageStore, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		s3Cfg, err := config.NewS3Config(ctx, cfg.S3Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3: %w", err)
		}
		// Uploaded objects are served by their public URL; the policy may
		// also be managed outside the app, so failure is not fatal.
		if err := s3Cfg.SetupBucketPolicy(ctx); err != nil {
			log.Printf("Warning: failed to apply bucket policy to %s: %v", cfg.S3Bucket, err)
		}
		return NewS3ImageStore(s3Cfg), nil
	default:
		return NewLocalImageStore(cfg.UploadDir, "/uploads"), nil
	}
}

func (s *S3ImageStore) Store(ctx context.Context, file *multipart.FileHeader, keyPrefix string) (string, error) {
	data, ext, err := readImage(file)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", keyPrefix, uuid.New().String(), ext)

	ctx, cancel := context.WithTimeout(ctx, s3UploadTimeout)
	defer cancel()

	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("%w: uploading to S3: %v", ErrUpstream, err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[ImageStore] Uploaded image to S3: %s", publicURL)
	return publicURL, nil
}

func (s *LocalImageStore) Store(ctx context.Context, file *multipart.FileHeader, keyPrefix string) (string, error) {
	data, ext, err := readImage(file)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.dir, keyPrefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, keyPrefix, name), nil
}

func readImage(file *multipart.FileHeader) ([]byte, string, error) {
	if file.Size > maxImageBytes {
		return nil, "", ErrImageTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, "", ErrInvalidImage
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxImageBytes {
		return nil, "", ErrImageTooLarge
	}

	return data, ext, nil
}

var (
	_ IImageStore = (*S3ImageStore)(nil)
	_ IImageStore = (*LocalImageStore)(nil)
)

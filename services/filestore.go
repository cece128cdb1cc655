package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "heritage-backend/common/errors"
	appconfig "heritage-backend/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// FileStore persists uploaded product images and returns a public URL.
type FileStore interface {
	Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error)
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// storageKey builds a collision-free object name keeping the original
// extension, after validating it against the image allowlist.
func storageKey(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExtensions[ext] {
		return "", apperrors.Validation("unsupported image type: " + ext)
	}
	return uuid.NewString() + ext, nil
}

// LocalFileStore writes uploads to a directory served as static files.
type LocalFileStore struct {
	dir     string
	baseURL string
}

func NewLocalFileStore(dir, baseURL string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalFileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalFileStore) Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	key, err := storageKey(filename)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, key)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, content); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// S3FileStore uploads product images to an S3 bucket.
type S3FileStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3FileStore(ctx context.Context, cfg *appconfig.Config) (*S3FileStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3FileStore{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(cfg.S3PublicURL, "/"),
	}, nil
}

func (s *S3FileStore) Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	key, err := storageKey(filename)
	if err != nil {
		return "", err
	}
	key = "products/" + key

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperrors.External("uploading to S3", err)
	}

	if s.publicURL != "" {
		return s.publicURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

// NewFileStore picks the configured storage backend.
func NewFileStore(ctx context.Context, cfg *appconfig.Config) (FileStore, error) {
	switch cfg.StorageBackend {
	case "s3":
		return NewS3FileStore(ctx, cfg)
	case "local", "":
		return NewLocalFileStore(cfg.UploadDir, cfg.UploadBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

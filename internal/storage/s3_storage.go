package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appconfig "github.com/homeheartcreation/shop-backend/config"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
)

const presignExpiry = 15 * time.Minute

// AllowedImageTypes are the content types accepted for product, category and
// profile images.
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// ObjectStorage stores uploaded media and returns public URLs for it.
type ObjectStorage interface {
	PresignUpload(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error)
	Put(ctx context.Context, folder, ext, contentType string, body io.Reader) (*StoredObject, error)
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
}

type StoredObject struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	region  string
	baseURL string
}

func NewS3Storage(cfg appconfig.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	// Static credentials when provided, otherwise the default chain
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = config.LoadDefaultConfig(context.Background(),
			config.WithRegion(cfg.Region),
		)
		if err != nil {
			logger.Warn("Failed to load default AWS config, using region only", map[string]interface{}{
				"error": err.Error(),
			})
			awsCfg = aws.Config{
				Region: cfg.Region,
			}
		}
	}

	client := s3.NewFromConfig(awsCfg)

	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// objectKey builds folder/<uuid><ext> so uploads never collide.
func objectKey(folder, ext string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = "uploads"
	}
	return fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), strings.ToLower(ext))
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// PresignUpload issues a PUT URL valid for 15 minutes.
func (s *S3Storage) PresignUpload(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error) {
	key := objectKey(folder, filepath.Ext(filename))

	presignedReq, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: presignedReq.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
	}, nil
}

// Put uploads body under a generated key in folder.
func (s *S3Storage) Put(ctx context.Context, folder, ext, contentType string, body io.Reader) (*StoredObject, error) {
	key := objectKey(folder, ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	logger.Debug("Object uploaded", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
	})
	return &StoredObject{URL: s.fileURL(key), Key: key}, nil
}

// ValidateContentType reports whether contentType is in allowedTypes.
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}

package storage

import (
	"context"
	"strings"
	"testing"

	appconfig "github.com/homeheartcreation/shop-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(baseURL string) *S3Storage {
	return NewS3Storage(appconfig.S3Config{
		Region:          "ap-south-1",
		Bucket:          "test-bucket",
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
		BaseURL:         baseURL,
	})
}

func TestObjectKey(t *testing.T) {
	key := objectKey("products/", ".JPG")
	assert.True(t, strings.HasPrefix(key, "products/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	assert.True(t, strings.HasPrefix(objectKey("", ".png"), "uploads/"))
	assert.NotEqual(t, objectKey("a", ".png"), objectKey("a", ".png"))
}

func TestFileURL(t *testing.T) {
	direct := newTestStorage("")
	assert.Equal(t, "https://test-bucket.s3.ap-south-1.amazonaws.com/products/x.jpg", direct.fileURL("products/x.jpg"))

	cdn := newTestStorage("https://cdn.example.com/")
	assert.Equal(t, "https://cdn.example.com/products/x.jpg", cdn.fileURL("products/x.jpg"))
}

func TestPresignUpload(t *testing.T) {
	s := newTestStorage("https://cdn.example.com")

	resp, err := s.PresignUpload(context.Background(), "photo.png", "image/png", "categories")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "categories/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".png"))
	assert.Contains(t, resp.UploadURL, "test-bucket")
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "https://cdn.example.com/"+resp.Key, resp.FileURL)
}

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, ValidateContentType("image/webp", AllowedImageTypes))
	assert.Error(t, ValidateContentType("application/pdf", AllowedImageTypes))
}

package controller

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/errors"
	"github.com/homeheartcreation/shop-backend/internal/middleware"
	"github.com/homeheartcreation/shop-backend/internal/storage"
	"github.com/nfnt/resize"
)

const (
	defaultUploadFolder = "products"
	jpegQuality         = 85
)

type UploadController struct {
	storage  storage.ObjectStorage
	maxBytes int64
	maxWidth uint
}

// NewUploadController accepts a nil store; every upload then answers 503.
func NewUploadController(store storage.ObjectStorage, maxBytes int64, maxWidth uint) *UploadController {
	return &UploadController{
		storage:  store,
		maxBytes: maxBytes,
		maxWidth: maxWidth,
	}
}

type PresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Folder      string `json:"folder"`
}

func uploadFolder(folder string) string {
	switch folder {
	case "products", "categories", "profiles":
		return folder
	default:
		return defaultUploadFolder
	}
}

func (ctrl *UploadController) configured(c *gin.Context) bool {
	if ctrl.storage == nil {
		errors.RespondWithError(c, http.StatusServiceUnavailable, errors.UploadNotConfigured, "Image uploads are not configured")
		return false
	}
	return true
}

// GeneratePresignedURL issues a presigned PUT for a direct browser upload
// POST /api/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	if !ctrl.configured(c) {
		return
	}
	log := middleware.GetLoggerFromContext(c)

	var req PresignedURLRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := storage.ValidateContentType(req.ContentType, storage.AllowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		errors.BadRequest(c, errors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	folder := uploadFolder(req.Folder)
	response, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
			"folder":   folder,
		})
		errors.RespondWithError(c, http.StatusBadGateway, errors.InternalExternalAPI, "Failed to generate presigned URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": response.Key,
	})
	c.JSON(http.StatusOK, response)
}

// UploadImage accepts a multipart "image", downsizes it to the configured
// width and stores it
// POST /api/uploads
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	if !ctrl.configured(c) {
		return
	}
	log := middleware.GetLoggerFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctrl.maxBytes+1<<20)
	fileHeader, err := c.FormFile("image")
	if err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "An image file is required")
		return
	}
	if fileHeader.Size > ctrl.maxBytes {
		errors.BadRequest(c, errors.UploadFileTooLarge, "Image exceeds the maximum upload size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err)
		errors.RespondWithError(c, http.StatusInternalServerError, errors.UploadFailed, "Failed to read upload")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read uploaded file", err)
		errors.RespondWithError(c, http.StatusInternalServerError, errors.UploadFailed, "Failed to read upload")
		return
	}

	contentType := http.DetectContentType(raw)
	if err := storage.ValidateContentType(contentType, storage.AllowedImageTypes); err != nil {
		log.Warn("Rejected upload content type", map[string]interface{}{
			"content_type": contentType,
			"filename":     fileHeader.Filename,
		})
		errors.BadRequest(c, errors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	body, ext, err := ctrl.downscale(raw, contentType)
	if err != nil {
		log.Warn("Failed to decode image", map[string]interface{}{
			"content_type": contentType,
			"error":        err.Error(),
		})
		errors.BadRequest(c, errors.UploadInvalidFileType, "Image could not be decoded")
		return
	}

	folder := uploadFolder(c.PostForm("folder"))
	stored, err := ctrl.storage.Put(c.Request.Context(), folder, ext, contentType, bytes.NewReader(body))
	if err != nil {
		log.Error("Failed to store image", err, map[string]interface{}{
			"folder": folder,
		})
		errors.RespondWithError(c, http.StatusBadGateway, errors.InternalExternalAPI, "Failed to upload image")
		return
	}

	log.Info("Image uploaded", map[string]interface{}{
		"key":           stored.Key,
		"original_size": len(raw),
		"stored_size":   len(body),
	})
	c.JSON(http.StatusCreated, stored)
}

// downscale re-encodes JPEG and PNG images wider than maxWidth. GIF and WEBP
// are stored unchanged.
func (ctrl *UploadController) downscale(raw []byte, contentType string) ([]byte, string, error) {
	switch contentType {
	case "image/jpeg", "image/png":
	case "image/gif":
		if _, err := gif.DecodeConfig(bytes.NewReader(raw)); err != nil {
			return nil, "", err
		}
		return raw, ".gif", nil
	default:
		return raw, ".webp", nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", err
	}
	if ctrl.maxWidth == 0 || uint(img.Bounds().Dx()) <= ctrl.maxWidth {
		return raw, extensionFor(contentType), nil
	}

	img = resize.Resize(ctrl.maxWidth, 0, img, resize.Lanczos3)

	var out bytes.Buffer
	if contentType == "image/png" {
		err = png.Encode(&out, img)
	} else {
		err = jpeg.Encode(&out, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, "", err
	}
	return out.Bytes(), extensionFor(contentType), nil
}

func extensionFor(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}

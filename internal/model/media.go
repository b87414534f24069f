package model

import (
	"errors"
	"time"
)

const (
	PostImageFolder   = "posts"
	MaxPostImageSize  = 10 * 1024 * 1024 // 10MB per image
	PresignExpiry     = 15 * time.Minute
	ImageCacheControl = "public, max-age=31536000"
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeWebP = "image/webp"
)

var imageExtensions = map[string]string{
	ContentTypeJPEG: ".jpg",
	ContentTypePNG:  ".png",
	ContentTypeWebP: ".webp",
}

// Domain errors for media operations
var (
	ErrFileTooLarge       = errors.New("file too large")
	ErrInvalidImageType   = errors.New("invalid image type")
	ErrMediaNotConfigured = errors.New("media storage not configured")
)

// PresignImageRequest requests a presigned URL for uploading a post image.
// The client PUTs bytes to UploadURL, then sends PublicURL in POST /posts images.
type PresignImageRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	FileSize    int64  `json:"file_size" validate:"gte=0"`
}

// PresignImageResponse returns upload details for direct-to-bucket uploads.
type PresignImageResponse struct {
	UploadURL  string `json:"upload_url"`
	PublicURL  string `json:"public_url"`
	Key        string `json:"key"`
	ExpiresInS int    `json:"expires_in"`
}

// ImageExtension returns the object key extension for an allowed content type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[contentType]
	return ext, ok
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"krishiconnect/internal/config"
	"krishiconnect/internal/model"
)

// MediaService issues presigned URLs for direct post image uploads to Cloudflare R2.
// Image bytes never pass through this server.
type MediaService struct {
	presigner *s3.PresignClient
	bucket    string
	publicURL string
}

// NewMediaService constructs an S3-compatible presign client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if !cfg.MediaEnabled() {
		return nil, model.ErrMediaNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		presigner: s3.NewPresignClient(s3Client),
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// PresignPostImage validates the declared upload and returns a short-lived PUT URL.
// The returned PublicURL is what the client later sends in a post's images.
func (s *MediaService) PresignPostImage(ctx context.Context, uploaderID string, req model.PresignImageRequest) (*model.PresignImageResponse, error) {
	if s == nil {
		return nil, model.ErrMediaNotConfigured
	}

	contentType := req.ContentType
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	ext, ok := model.ImageExtension(contentType)
	if !ok {
		return nil, model.ErrInvalidImageType
	}
	if req.FileSize > model.MaxPostImageSize {
		return nil, model.ErrFileTooLarge
	}

	key := fmt.Sprintf("%s/%s/%s%s", model.PostImageFolder, uploaderID, uuid.NewString(), ext)

	signed, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(model.ImageCacheControl),
	}, s3.WithPresignExpires(model.PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign r2 upload: %w", err)
	}

	log.Debug().Str("key", key).Str("uploader", uploaderID).Msg("[MediaService] Presigned post image upload")

	return &model.PresignImageResponse{
		UploadURL:  signed.URL,
		PublicURL:  fmt.Sprintf("%s/%s", s.publicURL, key),
		Key:        key,
		ExpiresInS: int(model.PresignExpiry.Seconds()),
	}, nil
}

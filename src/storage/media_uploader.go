package storage

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"insights-api/src/config"
	"insights-api/src/logger"
)

// MaxUploadSize caps media uploads at 10 MiB.
const MaxUploadSize = 10 << 20

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaUploader stores article images in an S3 compatible bucket
type MediaUploader struct {
	s3Client *s3.S3
	config   *config.S3Config
}

// NewMediaUploader creates an uploader against S3 or MinIO
func NewMediaUploader(cfg *config.S3Config) (*MediaUploader, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		DisableSSL:       aws.Bool(!cfg.UseSSL),
		S3ForcePathStyle: aws.Bool(true), // path style for MinIO and other S3 compatible stores
	}

	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &MediaUploader{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// ValidateContentType reports whether the MIME type is an accepted image format
func ValidateContentType(contentType string) error {
	if _, ok := allowedContentTypes[contentType]; !ok {
		return fmt.Errorf("unsupported content type %q", contentType)
	}
	return nil
}

// UploadImage stores an image under media/ and returns its public URL.
// The object key is date-partitioned so buckets stay browsable.
func (u *MediaUploader) UploadImage(reader io.Reader, originalName, contentType string) (string, error) {
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(reader, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("upload exceeds %d bytes", MaxUploadSize)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("upload body is empty")
	}

	objectKey := fmt.Sprintf("media/%s/%s%s",
		time.Now().UTC().Format("2006/01"),
		uuid.New().String(),
		ext,
	)

	_, err = u.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(u.config.Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]*string{
			"upload-time":   aws.String(time.Now().UTC().Format(time.RFC3339)),
			"original-name": aws.String(filepath.Base(originalName)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"bucket": u.config.Bucket,
		"key":    objectKey,
		"size":   len(data),
	}).Info("media uploaded")

	return u.PublicURL(objectKey), nil
}

// PublicURL resolves an object key to the externally visible URL
func (u *MediaUploader) PublicURL(objectKey string) string {
	if u.config.PublicBaseURL != "" {
		return strings.TrimSuffix(u.config.PublicBaseURL, "/") + "/" + objectKey
	}
	if u.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(u.config.Endpoint, "/"), u.config.Bucket, objectKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.config.Bucket, u.config.Region, objectKey)
}

package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Service uploads campaign images to Amazon S3 (or compatible APIs).
type S3Service struct {
	uploader *manager.Uploader
	bucket   string
	region   string
	endpoint string
}

func NewS3Service(client *s3.Client, bucket, region, endpoint string) *S3Service {
	return &S3Service{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		region:   region,
		endpoint: endpoint,
	}
}

// UploadImage stores the file under a random key, keeping the original
// extension, and returns its public URL.
func (s *S3Service) UploadImage(ctx context.Context, file File) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}

	key := uuid.NewString()
	if ext := path.Ext(file.Name); ext != "" {
		key += ext
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file.Reader,
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", file.Name, err)
	}

	return s.objectURL(key), nil
}

func (s *S3Service) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = 5 * time.Minute

// Service hands out presigned S3 URLs for media uploads and reads. The core
// never proxies file bytes; clients talk to object storage directly.
type Service struct {
	presigner *s3.PresignClient
	bucket    string
}

// NewService creates an S3-backed storage Service
func NewService(ctx context.Context, bucket, region string) (*Service, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket name not configured")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &Service{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}, nil
}

// GenerateUploadURL generates a presigned URL for uploading a file under the
// given prefix ("avatars", "combats"). Returns the URL and the object key.
func (s *Service) GenerateUploadURL(ctx context.Context, prefix, fileName, contentType string) (string, string, error) {
	key := prefix + "/" + uuid.NewString() + "-" + fileName
	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigned, err := s.presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", err
	}
	return presigned.URL, key, nil
}

// GenerateReadURL generates a presigned URL for reading a stored object
func (s *Service) GenerateReadURL(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	presigned, err := s.presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

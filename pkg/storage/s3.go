package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	backendS3 = "s3"
	keyPrefix = "uploads/"
)

// S3API is the part of *s3.Client used here.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ClientConfig holds configuration for S3-compatible storage
type S3ClientConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	// Endpoint targets S3-compatible providers (MinIO, Wasabi, R2). Empty means AWS.
	Endpoint string
}

// NewS3Client creates an S3 client. Static credentials are used when given,
// otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg S3ClientConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Storage keeps attachments in a bucket under the uploads/ prefix.
type S3Storage struct {
	client     S3API
	bucket     string
	publicBase string
	options    Options
	now        func() time.Time
}

// NewS3Storage builds the storage. publicBase is the URL objects are served
// from; when empty the virtual-hosted AWS URL for bucket/region is used.
func NewS3Storage(client S3API, bucket, region, publicBase string, options Options) *S3Storage {
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Storage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/") + "/",
		options:    options,
		now:        time.Now,
	}
}

func (s *S3Storage) Store(ctx context.Context, slot domain.FileSlot, upload *domain.Upload) (string, error) {
	file, err := s.options.prepare(slot, upload, s.now())
	if err != nil {
		return "", err
	}

	key := keyPrefix + file.Name
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.ContentType),
	})
	metrics.StorageOperationsTotal.WithLabelValues(backendS3, "store", metrics.Result(err)).Inc()
	if err != nil {
		return "", apperror.Upstream("Failed to store file", err)
	}
	return s.publicBase + key, nil
}

func (s *S3Storage) Manages(locator string) bool {
	_, ok := s.objectKey(locator)
	return ok
}

// Delete removes the object. S3 reports success for absent keys.
func (s *S3Storage) Delete(ctx context.Context, locator string) error {
	key, ok := s.objectKey(locator)
	if !ok {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	metrics.StorageOperationsTotal.WithLabelValues(backendS3, "delete", metrics.Result(err)).Inc()
	if err != nil {
		return apperror.Upstream("Failed to delete file", err)
	}
	return nil
}

func (s *S3Storage) objectKey(locator string) (string, bool) {
	if !strings.HasPrefix(locator, s.publicBase+keyPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(locator, s.publicBase)
	name := strings.TrimPrefix(key, keyPrefix)
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return "", false
	}
	return key, true
}

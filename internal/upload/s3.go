package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"globetrotter/internal/config"
)

// S3PhotoStore writes photos to an S3-compatible bucket. Object keys use the
// same relative layout as the local store.
type S3PhotoStore struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3PhotoStore builds a client from cfg. A custom endpoint targets
// S3-compatible services such as R2 or MinIO.
func NewS3PhotoStore(ctx context.Context, cfg config.S3Config, prefix string) (*S3PhotoStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3PhotoStore{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

func (s *S3PhotoStore) Save(ctx context.Context, name string, src io.Reader) (string, error) {
	buf, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}

	key := joinRelative(s.prefix, name)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws.Int64(int64(len(buf))),
		ContentType:   aws.String(mime.TypeByExtension(path.Ext(name))),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo to S3: %w", err)
	}
	return key, nil
}

func (s *S3PhotoStore) Remove(ctx context.Context, photoPath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(photoPath),
	})
	if err != nil {
		return fmt.Errorf("delete photo from S3: %w", err)
	}
	return nil
}

// NewPhotoStore selects the backend named by cfg.PhotoStorage.
func NewPhotoStore(ctx context.Context, cfg *config.Config) (PhotoStore, error) {
	switch cfg.PhotoStorage {
	case "", "local":
		return NewLocalPhotoStore(cfg.UploadDir)
	case "s3":
		return NewS3PhotoStore(ctx, cfg.S3, cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unsupported photo storage %q", cfg.PhotoStorage)
	}
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3KeyPrefix = "incidents/"

type S3Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// S3Backend stores images in an S3-compatible bucket (AWS, R2, MinIO).
type S3Backend struct {
	client    *s3.Client
	bucket    string
	refPrefix string
}

func NewS3Backend(cfg S3Config) (*S3Backend, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("s3 credentials are required")
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}

	opts := s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	refPrefix := "s3://" + cfg.Bucket + "/"
	if cfg.PublicURL != "" {
		refPrefix = strings.TrimRight(cfg.PublicURL, "/") + "/"
	}

	return &S3Backend{
		client:    s3.New(opts),
		bucket:    cfg.Bucket,
		refPrefix: refPrefix,
	}, nil
}

func (b *S3Backend) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	objectKey := s3KeyPrefix + key
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", err
	}
	return b.refPrefix + objectKey, nil
}

// Remove deletes the object behind ref. S3 treats deleting a missing key
// as success, which matches the Backend contract.
func (b *S3Backend) Remove(ctx context.Context, ref string) error {
	objectKey, ok := objectKeyFromRef(ref, b.refPrefix)
	if !ok {
		return nil
	}
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func objectKeyFromRef(ref, prefix string) (string, bool) {
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(ref, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

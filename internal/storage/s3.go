package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"filevault-backend/internal/config"
)

type S3Backend struct {
	config *config.S3Config
	client *s3.Client
}

func NewS3Backend(cfg *config.S3Config) *S3Backend {
	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
	}

	if cfg.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &S3Backend{
		config: cfg,
		client: s3.NewFromConfig(awsCfg),
	}
}

func (b *S3Backend) GetName() string {
	return "s3"
}

func (b *S3Backend) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := b.objectKey(name)
	if err := b.put(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

// Load treats the stored path as the object key. Keys produced by older
// deployments may carry a leading slash; strip it before the lookup.
func (b *S3Backend) Load(ctx context.Context, path string) ([]byte, error) {
	key := strings.TrimPrefix(path, "/")

	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object: %w", err)
	}

	return data, nil
}

func (b *S3Backend) Write(ctx context.Context, path string, data []byte) error {
	return b.put(ctx, strings.TrimPrefix(path, "/"), data)
}

func (b *S3Backend) put(ctx context.Context, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.config.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (b *S3Backend) objectKey(name string) string {
	if b.config.PathPrefix != "" {
		return b.config.PathPrefix + "/" + name
	}
	return name
}

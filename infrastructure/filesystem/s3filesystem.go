package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 client the file system needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	s3.ListObjectsV2APIClient
}

type S3FileSystem struct {
	client S3API
}

// Connect builds an S3 client from the default AWS credentials.
func Connect(ctx context.Context) (*S3FileSystem, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(s3.NewFromConfig(cfg)), nil
}

func New(client S3API) *S3FileSystem {
	return &S3FileSystem{client: client}
}

func (fs *S3FileSystem) ReadFile(ctx context.Context, bucket string, key string, outStream io.Writer) error {
	resp, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucket, err)
	}
	defer resp.Body.Close()

	if _, err = io.Copy(outStream, resp.Body); err != nil {
		return fmt.Errorf("failed to copy object %s from bucket %s: %w", key, bucket, err)
	}
	return nil
}

func (fs *S3FileSystem) WriteFile(ctx context.Context, bucket string, key string, contentType string, data []byte) error {
	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s to bucket %s: %w", key, bucket, err)
	}
	return nil
}

// ListFiles returns every key under prefix.
func (fs *S3FileSystem) ListFiles(ctx context.Context, bucket string, prefix string) ([]string, error) {
	var keys []string

	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	paginator := s3.NewListObjectsV2Paginator(fs.client, input)

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", bucket, err)
		}

		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	return keys, nil
}

package ailog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3_provider "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"answer-grader/config"
	s3client "answer-grader/pkg/s3"
)

// Archive uploads the current audit log to object storage and truncates the
// local file. Returns the object key written.
func Archive(ctx context.Context) (string, error) {
	path := config.Cfg.AILog.File
	if path == "" {
		return "", fmt.Errorf("ailog: no file configured")
	}

	mu.Lock()
	defer mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("ailog: nothing to archive")
	}

	client, err := s3client.GetClient()
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	bucket := config.Cfg.S3.Bucket
	// Ensure bucket exists
	if _, err := client.HeadBucket(ctx, &s3_provider.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		_, crtErr := client.CreateBucket(ctx, &s3_provider.CreateBucketInput{Bucket: aws.String(bucket)})
		if crtErr != nil {
			var bErr *s3types.BucketAlreadyOwnedByYou
			if !errors.As(crtErr, &bErr) {
				return "", fmt.Errorf("create bucket: %w", crtErr)
			}
		}
	}

	key := fmt.Sprintf("ai-checks/%s.log", time.Now().UTC().Format("2006-01-02T15-04-05"))
	_, err = client.PutObject(ctx, &s3_provider.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	if err := os.Truncate(path, 0); err != nil {
		return key, fmt.Errorf("truncate log: %w", err)
	}
	return key, nil
}

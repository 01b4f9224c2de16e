package sync

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Destination uploads registry snapshots to an S3-compatible bucket,
// overwriting one object key.
type S3Destination struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Destination creates an S3 destination. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar).
func NewS3Destination(ctx context.Context, bucket, key, region, endpoint string) (*S3Destination, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Destination{client: client, bucket: bucket, key: key}, nil
}

func (d *S3Destination) String() string {
	return "s3://" + d.bucket + "/" + d.key
}

// Write uploads data with the snapshot's header counts as object metadata.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:            aws.String(d.bucket),
		Key:               aws.String(d.key),
		Body:              bytes.NewReader(data),
		ContentType:       aws.String("application/x-ndjson"),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
	}
	if h, ok := peekHeader(data); ok {
		input.Metadata = map[string]string{
			"format-version": h.Version,
			"question-count": strconv.Itoa(h.QuestionCount),
			"answer-count":   strconv.Itoa(h.AnswerCount),
			"comment-count":  strconv.Itoa(h.CommentCount),
		}
	}

	if _, err := d.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 put %s: %w", d, err)
	}
	return nil
}

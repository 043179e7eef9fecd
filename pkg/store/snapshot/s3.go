package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const DefaultRegion = "af-south-1"

// PutObjectAPI is the subset of the S3 client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Settings struct {
	Bucket       string
	Key          string
	Region       string
	Profile      string
	CacheControl string
}

// S3Sink uploads the snapshot to a bucket that typically backs the static dashboard.
type S3Sink struct {
	client   PutObjectAPI
	settings S3Settings
}

func NewS3Sink(client PutObjectAPI, settings S3Settings) *S3Sink {
	if settings.Key == "" {
		settings.Key = DefaultPath
	}
	return &S3Sink{client: client, settings: settings}
}

// LoadS3Client builds an S3 client from the shared AWS config and the optional profile.
func LoadS3Client(ctx context.Context, settings S3Settings) (*s3.Client, error) {
	region := settings.Region
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(region)}
	if settings.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(settings.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

func (s *S3Sink) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.settings.Bucket, s.settings.Key)
}

func (s *S3Sink) Put(ctx context.Context, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.settings.Bucket),
		Key:         aws.String(s.settings.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}
	if s.settings.CacheControl != "" {
		input.CacheControl = aws.String(s.settings.CacheControl)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}
	return nil
}

package artifact

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// PublishConfig configures the S3 upload of a packaged artifact.
// Credentials fall back to the ambient AWS credential chain when the
// static fields are empty.
type PublishConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Publisher uploads packaged artifacts to the stack's code location.
type Publisher struct {
	client *s3.Client
	log    zerolog.Logger
}

// NewPublisher builds an S3 client for artifact uploads.
func NewPublisher(ctx context.Context, cfg PublishConfig, log zerolog.Logger) (*Publisher, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}

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
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &Publisher{
		client: s3.NewFromConfig(awsCfg, clientOpts...),
		log:    log,
	}, nil
}

// Publish uploads the artifact at path to the bucket and key the function
// declaration references.
func (p *Publisher) Publish(ctx context.Context, path, bucket, key string) error {
	if bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if key == "" {
		return fmt.Errorf("key is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading artifact: %w", err)
	}

	p.log.Info().
		Str("bucket", bucket).
		Str("key", key).
		Int64("size", info.Size()).
		Msg("uploading artifact")

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("putting object: %w", err)
	}

	p.log.Info().Str("bucket", bucket).Str("key", key).Msg("artifact published")
	return nil
}

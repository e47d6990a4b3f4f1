package export

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/OFFIS-RIT/symphony/internal/util"
	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	uploadTries   = 3
	presignExpiry = 24 * time.Hour
)

type NewS3ExporterParams struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Prefix         string
}

// S3Exporter uploads files to a bucket. With a public endpoint Put returns a
// presigned download link, otherwise the s3:// location of the object.
type S3Exporter struct {
	client         *s3.Client
	bucket         string
	prefix         string
	publicEndpoint string
}

func NewS3Exporter(ctx context.Context, params NewS3ExporterParams) (*S3Exporter, error) {
	if params.Bucket == "" {
		return nil, fmt.Errorf("no bucket configured")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(params.Region),
	}
	if params.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(params.Endpoint))
	}
	if params.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &S3Exporter{
		client:         client,
		bucket:         params.Bucket,
		prefix:         strings.Trim(params.Prefix, "/"),
		publicEndpoint: params.PublicEndpoint,
	}, nil
}

func (e *S3Exporter) key(name string) string {
	if e.prefix == "" {
		return name
	}
	return e.prefix + "/" + name
}

func (e *S3Exporter) Put(ctx context.Context, file File) (string, error) {
	key := e.key(file.Name)
	mimeType := mime.TypeByExtension(path.Ext(file.Name))
	if mimeType == "" {
		mimeType = "text/markdown; charset=utf-8"
	}

	err := util.RetryErrWithContext(ctx, uploadTries, func(ctx context.Context) error {
		_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(e.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(file.Content),
			ContentType: aws.String(mimeType),
		})
		if err != nil {
			logger.Debug("Upload attempt failed", "key", key, "err", err)
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	if e.publicEndpoint == "" {
		return fmt.Sprintf("s3://%s/%s", e.bucket, key), nil
	}
	return e.downloadLink(ctx, key)
}

// downloadLink presigns key against the public endpoint so the signature
// matches the host the link is opened with.
func (e *S3Exporter) downloadLink(ctx context.Context, key string) (string, error) {
	publicURL, err := url.Parse(e.publicEndpoint)
	if err != nil || publicURL.Scheme == "" || publicURL.Host == "" {
		return "", fmt.Errorf("invalid AWS_PUBLIC_ENDPOINT: %s", e.publicEndpoint)
	}
	prefix := strings.TrimSuffix(publicURL.Path, "/")
	publicBaseEndpoint := fmt.Sprintf("%s://%s", publicURL.Scheme, publicURL.Host)

	presignClient := s3.NewFromConfig(
		aws.Config{
			Region:      e.client.Options().Region,
			Credentials: e.client.Options().Credentials,
			HTTPClient:  e.client.Options().HTTPClient,
		},
		func(o *s3.Options) {
			o.BaseEndpoint = aws.String(publicBaseEndpoint)
			o.UsePathStyle = true
		},
	)

	out, err := s3.NewPresignClient(presignClient).PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(e.bucket),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(presignExpiry),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate download link: %w", err)
	}

	if prefix != "" {
		signedURL, err := url.Parse(out.URL)
		if err != nil {
			return "", fmt.Errorf("failed to parse presigned url: %w", err)
		}
		signedURL.Path = prefix + signedURL.Path
		return signedURL.String(), nil
	}
	return out.URL, nil
}

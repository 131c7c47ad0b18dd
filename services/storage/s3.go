package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"astrodesk/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store keeps assets in an S3-compatible bucket. Public objects are served from the bucket
// (or S3_PUBLIC_BASE_URL); private objects are handed out as presigned GET URLs.
type S3Store struct {
	client        *s3.Client
	presign       *s3.PresignClient
	bucket        string
	publicBaseURL string
	linkTTL       time.Duration
}

func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("storage.NewS3Store: S3_BUCKET is not set")
	}

	opts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewS3Store: unable to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimSuffix(cfg.S3PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &S3Store{
		client:        client,
		presign:       s3.NewPresignClient(client),
		bucket:        cfg.S3Bucket,
		publicBaseURL: baseURL,
		linkTTL:       cfg.DownloadLinkTTL,
	}, nil
}

func (s *S3Store) Name() string { return "s3" }

func (s *S3Store) Upload(ctx context.Context, obj Object) (StoredObject, error) {
	key := path.Join(obj.Folder, objectName(obj.Name))

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        obj.Body,
		ContentType: aws.String(obj.ContentType),
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return StoredObject{}, fmt.Errorf("S3Store: failed to upload %s: %w", key, err)
	}

	if obj.Visibility == Private {
		return StoredObject{Ref: key}, nil
	}
	return StoredObject{Ref: key, URL: s.publicBaseURL + "/" + key}, nil
}

// DownloadLink presigns a GET for the configured TTL. SigV4 caps this at seven days.
func (s *S3Store) DownloadLink(ctx context.Context, ref, _ string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}, s3.WithPresignExpires(s.linkTTL))
	if err != nil {
		return "", fmt.Errorf("S3Store: failed to presign %s: %w", ref, err)
	}
	return req.URL, nil
}

func (s *S3Store) Close() error { return nil }

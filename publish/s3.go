package publish

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ObjectStore wraps the AWS SDK for Go v2 S3 client with the narrow surface
// publishing needs, so tests can substitute a fake.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType, cacheControl string) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// StoreConfig configures the S3-backed object store. Empty values fall back
// to the standard AWS config/credential chain.
type StoreConfig struct {
	Bucket string
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// UsePathStyle forces path-style addressing for S3-compatible providers.
	UsePathStyle bool
}

// S3Store is the production ObjectStore over a single bucket
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store creates an object store using the default AWS configuration
// chain with optional overrides
func NewS3Store(ctx context.Context, cfg StoreConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("publish: bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3Store{client: c, bucket: cfg.Bucket}, nil
}

// Put uploads an object under the store's bucket
func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, contentType, cacheControl string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if cacheControl != "" {
		in.CacheControl = aws.String(cacheControl)
	}

	_, err := s.client.PutObject(ctx, in)
	return err
}

// Exists returns true if the object exists; false on 404/NotFound
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}

// Delete removes the object at key
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// ListKeys lists all object keys under the given prefix
func (s *S3Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			return keys, nil
		}
		token = out.NextContinuationToken
	}
}

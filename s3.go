package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Client struct {
	Client      *s3.Client
	accessKeyID string
}

// NewS3Client builds the S3 backend from the ambient AWS configuration
// (shared credentials, environment, instance role). The resolved access key
// is remembered so permission failures can name the identity that was
// tried.
func NewS3Client(ctx context.Context) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	accessKeyID := ""
	if creds, credErr := cfg.Credentials.Retrieve(ctx); credErr == nil {
		accessKeyID = creds.AccessKeyID
	}

	return &S3Client{
		Client:      s3.NewFromConfig(cfg),
		accessKeyID: accessKeyID,
	}, nil
}

func (s *S3Client) HeadBucket(ctx context.Context, bucket string) error {
	_, err := s.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		return nil
	}
	if httpStatus(err) == http.StatusForbidden {
		return accessErrorf(
			"bucket %q could not be retrieved with the specified credentials, tried access key ID %s",
			bucket, s.accessKeyID,
		)
	}
	if httpStatus(err) == http.StatusNotFound {
		return inputErrorf("bucket %q does not exist", bucket)
	}
	return fmt.Errorf("checking bucket %s: %w", bucket, err)
}

func (s *S3Client) ObjectMetadata(ctx context.Context, bucket, key string) (map[string]string, bool, error) {
	head, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if httpStatus(err) == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return head.Metadata, true, nil
}

func (s *S3Client) Upload(ctx context.Context, bucket, key string, body io.Reader, opts UploadOptions) error {
	input := &s3.PutObjectInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		Body:     body,
		Metadata: opts.Metadata,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.ContentEncoding != "" {
		input.ContentEncoding = aws.String(opts.ContentEncoding)
	}
	if opts.CacheControl != "" {
		input.CacheControl = aws.String(opts.CacheControl)
	}
	if opts.ACL != "" {
		input.ACL = types.ObjectCannedACL(opts.ACL)
	}

	uploader := manager.NewUploader(s.Client)
	_, err := uploader.Upload(ctx, input)
	return err
}

func (s *S3Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Client) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	listParams := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		listParams.Prefix = aws.String(prefix)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.Client, listParams)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return keys, err
		}
		for _, object := range page.Contents {
			keys = append(keys, aws.ToString(object.Key))
		}
	}
	return keys, nil
}

// httpStatus digs the HTTP status out of an SDK error, or 0 when the error
// never reached the response stage.
func httpStatus(err error) int {
	var responseErr *awshttp.ResponseError
	if errors.As(err, &responseErr) {
		return responseErr.HTTPStatusCode()
	}
	return 0
}

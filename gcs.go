package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Canned ACL names differ between providers; translate the S3-style
// configuration values to their GCS equivalents.
var gcsPredefinedACLs = map[string]string{
	"private":            "private",
	"public-read":        "publicRead",
	"public-read-write":  "publicReadWrite",
	"authenticated-read": "authenticatedRead",
}

type GCSClient struct {
	Client *storage.Client
}

// NewGCSClient builds the Google Cloud Storage backend using application
// default credentials.
func NewGCSClient(ctx context.Context) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}
	return &GCSClient{Client: client}, nil
}

func (g *GCSClient) HeadBucket(ctx context.Context, bucket string) error {
	_, err := g.Client.Bucket(bucket).Attrs(ctx)
	if errors.Is(err, storage.ErrBucketNotExist) {
		return inputErrorf("bucket %q does not exist", bucket)
	}
	if err != nil {
		return accessErrorf("bucket %q could not be retrieved with the specified credentials: %v", bucket, err)
	}
	return nil
}

func (g *GCSClient) ObjectMetadata(ctx context.Context, bucket, key string) (map[string]string, bool, error) {
	attrs, err := g.Client.Bucket(bucket).Object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return attrs.Metadata, true, nil
}

func (g *GCSClient) Upload(ctx context.Context, bucket, key string, body io.Reader, opts UploadOptions) error {
	writer := g.Client.Bucket(bucket).Object(key).NewWriter(ctx)
	writer.ContentType = opts.ContentType
	writer.ContentEncoding = opts.ContentEncoding
	writer.CacheControl = opts.CacheControl
	writer.Metadata = opts.Metadata
	if opts.ACL != "" {
		writer.PredefinedACL = gcsPredefinedACLs[opts.ACL]
	}

	if _, err := io.Copy(writer, body); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

func (g *GCSClient) Delete(ctx context.Context, bucket, key string) error {
	return g.Client.Bucket(bucket).Object(key).Delete(ctx)
}

func (g *GCSClient) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	objects := g.Client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := objects.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return keys, fmt.Errorf("Bucket(%q).Objects: %w", bucket, err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

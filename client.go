package main

import (
	"context"
	"io"
)

// metadataHashKey is the custom metadata field carrying the content
// fingerprint of the uploaded bytes. We store our own MD5 rather than
// relying on the ETag because ETags of multipart uploads are not plain
// content hashes and cannot be compared with a local digest.
const metadataHashKey = "sitesync-hash"

// UploadOptions carries the derived headers for a single object upload.
// Zero-value fields are omitted from the request so bucket-level defaults
// stay in effect.
type UploadOptions struct {
	ContentType     string
	ContentEncoding string
	CacheControl    string
	ACL             string
	Metadata        map[string]string
}

// BucketClient abstracts the object storage provider. Implementations must
// be safe for concurrent use; one client is shared by every task in a
// phase.
type BucketClient interface {
	// HeadBucket verifies the bucket exists and is reachable with the
	// configured credentials.
	HeadBucket(ctx context.Context, bucket string) error

	// ObjectMetadata returns the custom metadata of an object without
	// fetching its content. The second return is false when no object
	// exists at the key.
	ObjectMetadata(ctx context.Context, bucket, key string) (map[string]string, bool, error)

	// Upload streams body to the given key.
	Upload(ctx context.Context, bucket, key string, body io.Reader, opts UploadOptions) error

	// Delete removes a single object.
	Delete(ctx context.Context, bucket, key string) error

	// ListKeys returns every object key under prefix.
	ListKeys(ctx context.Context, bucket, prefix string) ([]string, error)
}

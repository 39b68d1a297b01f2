package main

import (
	"context"
	"io"
	"strings"
	"sync"
)

// MockObject is the remote-side state of one seeded object.
type MockObject struct {
	Metadata map[string]string
}

// MockUpload records one Upload call.
type MockUpload struct {
	Bucket string
	Key    string
	Body   []byte
	Opts   UploadOptions
}

// MockDelete records one Delete call.
type MockDelete struct {
	Bucket string
	Key    string
}

// MockBucketClient is an in-memory BucketClient recording every mutating
// request. Tasks call it concurrently, so all state is mutex guarded.
type MockBucketClient struct {
	mu             sync.Mutex
	Objects        map[string]MockObject
	UploadRequests []MockUpload
	DeleteRequests []MockDelete
	HeadBucketErr  error
}

func NewMockBucketClient(objects map[string]MockObject) *MockBucketClient {
	if objects == nil {
		objects = make(map[string]MockObject)
	}
	return &MockBucketClient{Objects: objects}
}

func (m *MockBucketClient) HeadBucket(ctx context.Context, bucket string) error {
	return m.HeadBucketErr
}

func (m *MockBucketClient) ObjectMetadata(ctx context.Context, bucket, key string) (map[string]string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.Objects[key]
	if !ok {
		return nil, false, nil
	}
	return obj.Metadata, true, nil
}

func (m *MockBucketClient) Upload(ctx context.Context, bucket, key string, body io.Reader, opts UploadOptions) error {
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadRequests = append(m.UploadRequests, MockUpload{
		Bucket: bucket,
		Key:    key,
		Body:   content,
		Opts:   opts,
	})
	m.Objects[key] = MockObject{Metadata: opts.Metadata}
	return nil
}

func (m *MockBucketClient) Delete(ctx context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteRequests = append(m.DeleteRequests, MockDelete{Bucket: bucket, Key: key})
	delete(m.Objects, key)
	return nil
}

func (m *MockBucketClient) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for key := range m.Objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

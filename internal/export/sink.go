package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Sink stores exported PNG files.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
}

// DirSink writes files into a local directory, creating it when needed.
type DirSink struct {
	Dir string
}

func (s DirSink) Put(ctx context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// List returns the PNG files in the directory, sorted by name.
func (s DirSink) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading export directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".png") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// BucketSink uploads files to a Cloud Storage bucket under a prefix.
type BucketSink struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewBucketSink creates a Cloud Storage client for bucket.
func NewBucketSink(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*BucketSink, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &BucketSink{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *BucketSink) Put(ctx context.Context, name string, data []byte) error {
	objectName := s.prefix + name
	writer := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = "image/png"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("writing object %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing object writer: %w", err)
	}
	return nil
}

// List returns the names of exported objects under the prefix.
func (s *BucketSink) List(ctx context.Context) ([]string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: s.prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}
		names = append(names, strings.TrimPrefix(attrs.Name, s.prefix))
	}
	return names, nil
}

// Close releases the storage client.
func (s *BucketSink) Close() error {
	return s.client.Close()
}

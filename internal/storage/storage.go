// Package storage writes pipeline outputs (workbooks, chart images) through
// a blob sink so the report and chart writers never touch the filesystem
// directly.
package storage

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
)

// Sink is a destination for rendered pipeline outputs.
type Sink interface {
	// Write stores data under key, overwriting any previous object.
	Write(ctx context.Context, key string, data []byte) error
	Close() error
}

// LocalSink stores outputs as files under a local directory.
type LocalSink struct {
	bucket *blob.Bucket
	dir    string
}

// NewLocalSink opens (creating if needed) a directory-backed sink.
func NewLocalSink(dir string) (*LocalSink, error) {
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		CreateDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("open local sink %s: %w", dir, err)
	}
	return &LocalSink{bucket: bucket, dir: dir}, nil
}

// Write stores data under key inside the sink directory.
func (s *LocalSink) Write(ctx context.Context, key string, data []byte) error {
	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying bucket.
func (s *LocalSink) Close() error {
	return s.bucket.Close()
}

// Dir returns the directory backing this sink.
func (s *LocalSink) Dir() string {
	return s.dir
}

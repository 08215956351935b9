// Package lake provides object-storage access for the ETL: listing and
// reading line-delimited JSON inputs and writing/reading partitioned parquet
// tables, against either a local directory tree or an S3 bucket.
package lake

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
)

// Bucket is a rooted object store. Keys are slash-separated paths relative
// to the root.
type Bucket interface {
	// Glob lists keys matching a shell-style pattern. Wildcards do not
	// cross path segments.
	Glob(ctx context.Context, pattern string) ([]string, error)

	// ListPrefix lists all keys under a prefix, recursively.
	ListPrefix(ctx context.Context, prefix string) ([]string, error)

	// Open reads the object at key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// DeletePrefix removes every object under a prefix. Removing a prefix
	// that does not exist is not an error.
	DeletePrefix(ctx context.Context, prefix string) error

	// Upload writes body to key, replacing any existing object.
	Upload(ctx context.Context, key string, body io.Reader) error
}

// IsS3 reports whether path is an s3:// URI.
func IsS3(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// OpenBucket opens path as a bucket: an s3://bucket/prefix URI (sess
// required) or a local directory.
func OpenBucket(path string, sess *session.Session) (Bucket, error) {
	if IsS3(path) {
		return NewS3Bucket(sess, path)
	}
	return NewLocalBucket(path), nil
}

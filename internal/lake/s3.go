package lake

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// deleteBatchSize is the S3 DeleteObjects limit per request.
const deleteBatchSize = 1000

// NewSession builds an AWS session for the given region. When an access key
// is supplied it is used as a static credential; otherwise the default
// credential chain applies.
func NewSession(region, accessKeyID, secretAccessKey string) (*session.Session, error) {
	cfg := aws.NewConfig().WithRegion(region)
	if accessKeyID != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(accessKeyID, secretAccessKey, ""))
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return sess, nil
}

// S3Bucket is a Bucket rooted at s3://bucket/prefix.
type S3Bucket struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Bucket parses an s3://bucket/prefix URI into a bucket rooted at that
// prefix.
func NewS3Bucket(sess *session.Session, uri string) (*S3Bucket, error) {
	if sess == nil {
		return nil, fmt.Errorf("s3 bucket %q: nil session", uri)
	}
	rest := strings.TrimPrefix(uri, "s3://")
	if rest == uri || rest == "" {
		return nil, fmt.Errorf("invalid s3 uri %q", uri)
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	return &S3Bucket{
		client:   s3.New(sess),
		uploader: s3manager.NewUploaderWithClient(s3.New(sess)),
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
	}, nil
}

// abs joins a bucket-relative key onto the root prefix.
func (b *S3Bucket) abs(key string) string {
	if b.prefix == "" {
		return key
	}
	return b.prefix + "/" + key
}

// rel strips the root prefix off an absolute object key.
func (b *S3Bucket) rel(key string) string {
	if b.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, b.prefix+"/")
}

func (b *S3Bucket) Glob(ctx context.Context, pattern string) ([]string, error) {
	keys, err := b.ListPrefix(ctx, staticPrefix(pattern))
	if err != nil {
		return nil, err
	}
	var matched []string
	for _, key := range keys {
		ok, err := path.Match(pattern, key)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if ok {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

func (b *S3Bucket) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	abs := b.abs(strings.TrimSuffix(prefix, "/"))
	if abs != "" {
		abs += "/"
	}
	var keys []string
	err := b.client.ListObjectsV2PagesWithContext(ctx,
		&s3.ListObjectsV2Input{
			Bucket: aws.String(b.bucket),
			Prefix: aws.String(abs),
		},
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, obj := range page.Contents {
				keys = append(keys, b.rel(aws.StringValue(obj.Key)))
			}
			return !lastPage
		})
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", b.bucket, abs, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *S3Bucket) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := b.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.abs(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", b.bucket, b.abs(key), err)
	}
	return out.Body, nil
}

func (b *S3Bucket) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := b.ListPrefix(ctx, prefix)
	if err != nil {
		return err
	}
	for len(keys) > 0 {
		n := len(keys)
		if n > deleteBatchSize {
			n = deleteBatchSize
		}
		batch := make([]*s3.ObjectIdentifier, 0, n)
		for _, key := range keys[:n] {
			batch = append(batch, &s3.ObjectIdentifier{Key: aws.String(b.abs(key))})
		}
		_, err := b.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(b.bucket),
			Delete: &s3.Delete{Objects: batch, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("delete s3://%s/%s: %w", b.bucket, b.abs(prefix), err)
		}
		keys = keys[n:]
	}
	return nil
}

func (b *S3Bucket) Upload(ctx context.Context, key string, body io.Reader) error {
	abs := b.abs(key)
	_, err := b.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(abs),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", b.bucket, abs, err)
	}

	// Verify the object landed before the caller treats the write as durable.
	_, err = b.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(abs),
	})
	if err != nil {
		return fmt.Errorf("upload verification s3://%s/%s: %w", b.bucket, abs, err)
	}
	return nil
}

// staticPrefix returns the directory part of pattern before its first
// wildcard, used to bound the S3 listing.
func staticPrefix(pattern string) string {
	i := strings.IndexAny(pattern, "*?[")
	if i < 0 {
		if d := path.Dir(pattern); d != "." {
			return d
		}
		return ""
	}
	j := strings.LastIndex(pattern[:i], "/")
	if j < 0 {
		return ""
	}
	return pattern[:j]
}

package lake

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalBucket is a Bucket rooted at a local directory.
type LocalBucket struct {
	root string
}

// NewLocalBucket returns a bucket over the directory tree at root.
func NewLocalBucket(root string) *LocalBucket {
	return &LocalBucket{root: root}
}

func (b *LocalBucket) Glob(_ context.Context, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(b.root, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(b.root, m)
		if err != nil {
			return nil, err
		}
		keys = append(keys, filepath.ToSlash(rel))
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *LocalBucket) ListPrefix(_ context.Context, prefix string) ([]string, error) {
	dir := filepath.Join(b.root, filepath.FromSlash(prefix))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var keys []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(b.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *LocalBucket) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(b.root, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", key, err)
	}
	return f, nil
}

func (b *LocalBucket) DeletePrefix(_ context.Context, prefix string) error {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" || prefix == "." {
		return fmt.Errorf("refusing to delete bucket root")
	}
	if err := os.RemoveAll(filepath.Join(b.root, filepath.FromSlash(prefix))); err != nil {
		return fmt.Errorf("delete %q: %w", prefix, err)
	}
	return nil
}

func (b *LocalBucket) Upload(_ context.Context, key string, body io.Reader) error {
	dest := filepath.Join(b.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("upload %q: %w", key, err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("upload %q: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("upload %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("upload %q: %w", key, err)
	}
	return nil
}

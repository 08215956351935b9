package lake

import (
	"bufio"
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/goccy/go-json"
)

// maxLineBytes bounds a single NDJSON line.
const maxLineBytes = 1 << 20

// ReadNDJSON reads every object matching glob and decodes it line-by-line
// into T. Files are read concurrently; row order across files is therefore
// unspecified. The first malformed record fails the whole read, there is no
// row-level skipping.
func ReadNDJSON[T any](ctx context.Context, src Bucket, glob string) ([]T, error) {
	keys, err := src.Glob(ctx, glob)
	if err != nil {
		return nil, err
	}

	semaphore := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup
	var mu sync.Mutex
	var rows []T
	var firstErr error

	for _, key := range keys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			fileRows, err := readNDJSONFile[T](ctx, src, k)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			rows = append(rows, fileRows...)
		}(key)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return rows, nil
}

func readNDJSONFile[T any](ctx context.Context, src Bucket, key string) ([]T, error) {
	rc, err := src.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var rows []T
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var row T
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, fmt.Errorf("decode %s line %d: %w", key, line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return rows, nil
}

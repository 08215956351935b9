package lake

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetParallelism is the parquet-go marshal/unmarshal goroutine count.
const parquetParallelism = 4

// WriteTable persists rows as a parquet dataset at <name>.parquet under dst,
// replacing any existing data there. partition maps a row to a hive-style
// relative path such as "year=2018/month=11"; a nil partition writes a
// single unpartitioned file. An empty row set still materializes the dataset
// as one empty parquet file.
func WriteTable[T any](ctx context.Context, dst Bucket, name string, rows []T, partition func(T) string) error {
	prefix := name + ".parquet"
	if err := dst.DeletePrefix(ctx, prefix); err != nil {
		return fmt.Errorf("table %s: %w", name, err)
	}

	groups := map[string][]T{}
	var order []string
	for _, row := range rows {
		p := ""
		if partition != nil {
			p = partition(row)
		}
		if _, ok := groups[p]; !ok {
			order = append(order, p)
		}
		groups[p] = append(groups[p], row)
	}
	if len(order) == 0 {
		order = append(order, "")
		groups[""] = nil
	}

	tempDir, err := os.MkdirTemp("", "sparkify-etl-*")
	if err != nil {
		return fmt.Errorf("table %s: %w", name, err)
	}
	defer os.RemoveAll(tempDir)

	for i, part := range order {
		key := path.Join(prefix, part, "part-00000.parquet")
		localFile := filepath.Join(tempDir, fmt.Sprintf("part-%05d.parquet", i))
		if err := writeParquetFile(localFile, groups[part]); err != nil {
			return fmt.Errorf("table %s partition %q: %w", name, part, err)
		}
		if err := uploadFile(ctx, dst, key, localFile); err != nil {
			return fmt.Errorf("table %s partition %q: %w", name, part, err)
		}
	}
	return nil
}

func writeParquetFile[T any](localFile string, rows []T) error {
	fw, err := local.NewLocalFileWriter(localFile)
	if err != nil {
		return fmt.Errorf("create local file writer: %w", err)
	}
	pw, err := writer.NewParquetWriter(fw, new(T), parquetParallelism)
	if err != nil {
		fw.Close()
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			fw.Close()
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("error in WriteStop: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("error closing file writer: %w", err)
	}
	return nil
}

func uploadFile(ctx context.Context, dst Bucket, key, localFile string) error {
	f, err := os.Open(localFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return dst.Upload(ctx, key, f)
}

// ReadTable reads back every part file of the parquet dataset at
// <name>.parquet under src. This is the phase-barrier read path: consumers
// see only what was durably written, never in-memory state.
func ReadTable[T any](ctx context.Context, src Bucket, name string) ([]T, error) {
	keys, err := src.ListPrefix(ctx, name+".parquet")
	if err != nil {
		return nil, err
	}

	var rows []T
	for _, key := range keys {
		if !strings.HasSuffix(key, ".parquet") {
			continue
		}
		part, err := readParquetFile[T](ctx, src, key)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		rows = append(rows, part...)
	}
	return rows, nil
}

func readParquetFile[T any](ctx context.Context, src Bucket, key string) ([]T, error) {
	rc, err := src.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	bf := buffer.NewBufferFileFromBytes(data)
	pr, err := reader.NewParquetReader(bf, new(T), parquetParallelism)
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", key, err)
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	rows := make([]T, num)
	if num > 0 {
		if err := pr.Read(&rows); err != nil {
			return nil, fmt.Errorf("read parquet %s: %w", key, err)
		}
	}
	return rows, nil
}

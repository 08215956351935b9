package lake

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkify_etl/internal/schema"
)

func songPartition(r schema.SongRow) string {
	return fmt.Sprintf("year=%d/artist_id=%s", r.Year, r.ArtistID)
}

func TestWriteTableReadTable(t *testing.T) {
	ctx := context.Background()

	t.Run("partitioned roundtrip preserves rows", func(t *testing.T) {
		b := NewLocalBucket(t.TempDir())
		rows := []schema.SongRow{
			{SongID: 0, ArtistID: "A1", Title: "X", Year: 2000, Duration: 180.0},
			{SongID: 1, ArtistID: "A1", Title: "Y", Year: 2000, Duration: 200.5},
			{SongID: 2, ArtistID: "A2", Title: "Z", Year: 2010, Duration: 95.1},
		}

		require.NoError(t, WriteTable(ctx, b, "songs", rows, songPartition))
		got, err := ReadTable[schema.SongRow](ctx, b, "songs")

		require.NoError(t, err)
		assert.ElementsMatch(t, rows, got)
	})

	t.Run("partition path matches the row's own columns", func(t *testing.T) {
		b := NewLocalBucket(t.TempDir())
		rows := []schema.SongRow{
			{SongID: 0, ArtistID: "A1", Title: "X", Year: 2000, Duration: 180.0},
			{SongID: 1, ArtistID: "A2", Title: "Z", Year: 2010, Duration: 95.1},
		}
		require.NoError(t, WriteTable(ctx, b, "songs", rows, songPartition))

		keys, err := b.ListPrefix(ctx, "songs.parquet")
		require.NoError(t, err)
		require.Len(t, keys, 2)
		assert.Contains(t, keys, "songs.parquet/year=2000/artist_id=A1/part-00000.parquet")
		assert.Contains(t, keys, "songs.parquet/year=2010/artist_id=A2/part-00000.parquet")

		// Rows read back from a partition agree with its path.
		for _, key := range keys {
			dir := strings.TrimSuffix(key, "/part-00000.parquet")
			part, err := readParquetFile[schema.SongRow](ctx, b, key)
			require.NoError(t, err)
			for _, r := range part {
				assert.Equal(t, dir, "songs.parquet/"+songPartition(r))
			}
		}
	})

	t.Run("nil partition writes one file", func(t *testing.T) {
		b := NewLocalBucket(t.TempDir())
		rows := []schema.ArtistRow{
			{ArtistID: "A1", ArtistName: "Ann"},
			{ArtistID: "A2", ArtistName: "Bob"},
		}

		require.NoError(t, WriteTable(ctx, b, "artists", rows, nil))

		keys, err := b.ListPrefix(ctx, "artists.parquet")
		require.NoError(t, err)
		assert.Equal(t, []string{"artists.parquet/part-00000.parquet"}, keys)

		got, err := ReadTable[schema.ArtistRow](ctx, b, "artists")
		require.NoError(t, err)
		assert.ElementsMatch(t, rows, got)
	})

	t.Run("overwrite removes stale partitions", func(t *testing.T) {
		b := NewLocalBucket(t.TempDir())
		first := []schema.SongRow{{SongID: 0, ArtistID: "A1", Title: "X", Year: 2000, Duration: 180.0}}
		second := []schema.SongRow{{SongID: 5, ArtistID: "A9", Title: "W", Year: 1999, Duration: 60.0}}

		require.NoError(t, WriteTable(ctx, b, "songs", first, songPartition))
		require.NoError(t, WriteTable(ctx, b, "songs", second, songPartition))

		got, err := ReadTable[schema.SongRow](ctx, b, "songs")
		require.NoError(t, err)
		assert.Equal(t, second, got)

		keys, err := b.ListPrefix(ctx, "songs.parquet")
		require.NoError(t, err)
		assert.Equal(t, []string{"songs.parquet/year=1999/artist_id=A9/part-00000.parquet"}, keys)
	})

	t.Run("empty row set still materializes the dataset", func(t *testing.T) {
		b := NewLocalBucket(t.TempDir())

		require.NoError(t, WriteTable(ctx, b, "songplays", nil, func(schema.SongplayRow) string { return "" }))

		keys, err := b.ListPrefix(ctx, "songplays.parquet")
		require.NoError(t, err)
		require.Len(t, keys, 1)

		got, err := ReadTable[schema.SongplayRow](ctx, b, "songplays")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

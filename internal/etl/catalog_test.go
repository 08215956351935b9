package etl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkify_etl/internal/schema"
)

func catalogRecord(artistID, title string, year int32, duration float64) schema.SongRecord {
	return schema.SongRecord{
		ArtistID:       artistID,
		Title:          title,
		Year:           year,
		Duration:       duration,
		NumSongs:       1,
		ArtistName:     "Artist " + artistID,
		ArtistLocation: "Somewhere",
	}
}

func TestBuildSongs(t *testing.T) {
	t.Run("two identical records yield one row", func(t *testing.T) {
		var ids IDGenerator
		records := []schema.SongRecord{
			catalogRecord("A1", "X", 2000, 180.0),
			catalogRecord("A1", "X", 2000, 180.0),
		}

		songs := BuildSongs(records, &ids)

		require.Len(t, songs, 1)
		assert.Equal(t, "A1", songs[0].ArtistID)
		assert.Equal(t, "X", songs[0].Title)
		assert.Equal(t, int32(2000), songs[0].Year)
		assert.Equal(t, 180.0, songs[0].Duration)
	})

	t.Run("song ids are pairwise distinct", func(t *testing.T) {
		var ids IDGenerator
		records := make([]schema.SongRecord, 0, 100)
		for i := 0; i < 100; i++ {
			records = append(records, catalogRecord("A1", fmt.Sprintf("song %d", i), 2000, float64(i)))
		}

		songs := BuildSongs(records, &ids)

		require.Len(t, songs, 100)
		seen := map[int64]struct{}{}
		for _, s := range songs {
			_, dup := seen[s.SongID]
			assert.False(t, dup, "song_id %d assigned twice", s.SongID)
			seen[s.SongID] = struct{}{}
		}
	})

	t.Run("differing duration is a distinct song", func(t *testing.T) {
		var ids IDGenerator
		records := []schema.SongRecord{
			catalogRecord("A1", "X", 2000, 180.0),
			catalogRecord("A1", "X", 2000, 180.5),
		}

		songs := BuildSongs(records, &ids)

		assert.Len(t, songs, 2)
	})

	t.Run("extraction is idempotent on deduplicated input", func(t *testing.T) {
		records := []schema.SongRecord{
			catalogRecord("A1", "X", 2000, 180.0),
			catalogRecord("A2", "Y", 2001, 200.0),
		}

		var ids1 IDGenerator
		first := BuildSongs(records, &ids1)
		var ids2 IDGenerator
		second := BuildSongs(records, &ids2)

		assert.Len(t, second, len(first))
	})
}

func TestBuildArtists(t *testing.T) {
	t.Run("deduplicates on the full tuple", func(t *testing.T) {
		records := []schema.SongRecord{
			catalogRecord("A1", "X", 2000, 180.0),
			catalogRecord("A1", "Y", 2001, 200.0), // same artist fields, different song
		}

		artists := BuildArtists(records)

		require.Len(t, artists, 1)
		assert.Equal(t, "A1", artists[0].ArtistID)
		assert.Equal(t, "Artist A1", artists[0].ArtistName)
	})

	t.Run("keeps artists that differ in any attribute", func(t *testing.T) {
		a := catalogRecord("A1", "X", 2000, 180.0)
		b := catalogRecord("A1", "Y", 2001, 200.0)
		b.ArtistLocation = "Elsewhere"

		artists := BuildArtists([]schema.SongRecord{a, b})

		assert.Len(t, artists, 2)
	})
}

func TestSongPartition(t *testing.T) {
	row := schema.SongRow{SongID: 7, ArtistID: "A1", Title: "X", Year: 2000, Duration: 180}

	assert.Equal(t, "year=2000/artist_id=A1", SongPartition(row))
}

package etl

import (
	"fmt"

	"sparkify_etl/internal/schema"
)

// songKey is the songs projection before the surrogate key is assigned.
// Dedup runs on this full tuple.
type songKey struct {
	ArtistID string
	Title    string
	Year     int32
	Duration float64
}

// BuildSongs projects catalog records to the songs dimension: select
// {artist_id, title, year, duration}, drop exact duplicates, then assign
// song_id to each surviving row. The id-to-row mapping is not reproducible
// across runs and nothing may depend on it.
func BuildSongs(records []schema.SongRecord, ids *IDGenerator) []schema.SongRow {
	keys := make([]songKey, 0, len(records))
	for _, r := range records {
		keys = append(keys, songKey{
			ArtistID: r.ArtistID,
			Title:    r.Title,
			Year:     r.Year,
			Duration: r.Duration,
		})
	}
	keys = Distinct(keys)

	rows := make([]schema.SongRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, schema.SongRow{
			SongID:   ids.Next(),
			ArtistID: k.ArtistID,
			Title:    k.Title,
			Year:     k.Year,
			Duration: k.Duration,
		})
	}
	return rows
}

// BuildArtists projects catalog records to the artists dimension and drops
// exact duplicates. artist_id from the source is reused as-is.
func BuildArtists(records []schema.SongRecord) []schema.ArtistRow {
	rows := make([]schema.ArtistRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, schema.ArtistRow{
			ArtistID:        r.ArtistID,
			ArtistName:      r.ArtistName,
			ArtistLocation:  r.ArtistLocation,
			ArtistLatitude:  r.ArtistLatitude,
			ArtistLongitude: r.ArtistLongitude,
		})
	}
	return Distinct(rows)
}

// SongPartition maps a songs row to its (year, artist_id) partition path.
func SongPartition(r schema.SongRow) string {
	return fmt.Sprintf("year=%d/artist_id=%s", r.Year, r.ArtistID)
}

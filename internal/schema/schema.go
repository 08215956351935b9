// Package schema declares the raw input record types and the star-schema
// table row types the ETL produces. Raw types carry json tags for strict
// NDJSON decoding; table rows carry parquet-go tags that define the columnar
// output schema.
package schema

// SongRecord is one raw song-catalog record. Values are decoded strictly
// against these types; a record whose fields do not conform fails the whole
// read rather than being skipped row-by-row.
type SongRecord struct {
	ArtistID        string  `json:"artist_id"`
	Title           string  `json:"title"`
	Year            int32   `json:"year"`
	Duration        float64 `json:"duration"`
	NumSongs        int32   `json:"num_songs"`
	ArtistName      string  `json:"artist_name"`
	ArtistLocation  string  `json:"artist_location"`
	ArtistLatitude  float64 `json:"artist_latitude"`
	ArtistLongitude float64 `json:"artist_longitude"`
}

// LogEvent is one raw listening-session log record. Only NextSong page
// events feed the downstream tables.
type LogEvent struct {
	TS        int64   `json:"ts"`
	Page      string  `json:"page"`
	UserID    string  `json:"userId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Gender    string  `json:"gender"`
	Level     string  `json:"level"`
	SessionID int64   `json:"sessionId"`
	UserAgent string  `json:"userAgent"`
	Length    float64 `json:"length"`
	Artist    string  `json:"artist"`
	Location  string  `json:"location"`
	Song      string  `json:"song"`
}

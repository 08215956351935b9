package schema

// SongRow is one row of the songs dimension table. song_id is a run-scoped
// surrogate key assigned after deduplication; its value is not stable across
// reruns. Partitioned by (year, artist_id) on disk; the partition columns are
// kept in the file as well as in the path.
type SongRow struct {
	SongID   int64   `parquet:"name=song_id, type=INT64"`
	ArtistID string  `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Title    string  `parquet:"name=title, type=BYTE_ARRAY, convertedtype=UTF8"`
	Year     int32   `parquet:"name=year, type=INT32"`
	Duration float64 `parquet:"name=duration, type=DOUBLE"`
}

// ArtistRow is one row of the artists dimension table. artist_id is reused
// from the source; no surrogate key is added.
type ArtistRow struct {
	ArtistID        string  `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	ArtistName      string  `parquet:"name=artist_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	ArtistLocation  string  `parquet:"name=artist_location, type=BYTE_ARRAY, convertedtype=UTF8"`
	ArtistLatitude  float64 `parquet:"name=artist_latitude, type=DOUBLE"`
	ArtistLongitude float64 `parquet:"name=artist_longitude, type=DOUBLE"`
}

// UserRow is one row of the users dimension table. A user whose level
// changed over their history produces one row per distinct level; no
// latest-wins resolution is applied.
type UserRow struct {
	UserID    string `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	FirstName string `parquet:"name=first_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	LastName  string `parquet:"name=last_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Gender    string `parquet:"name=gender, type=BYTE_ARRAY, convertedtype=UTF8"`
	Level     string `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// TimeRow is one row of the time dimension table, one per distinct event
// timestamp. All fields derive from the epoch-millis timestamp under the
// pinned UTC policy; weekday is anchored 0 = Sunday.
type TimeRow struct {
	StartTime string `parquet:"name=start_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	Hour      int32  `parquet:"name=hour, type=INT32"`
	Day       int32  `parquet:"name=day, type=INT32"`
	Week      int32  `parquet:"name=week, type=INT32"`
	Month     int32  `parquet:"name=month, type=INT32"`
	Year      int32  `parquet:"name=year, type=INT32"`
	Weekday   int32  `parquet:"name=weekday, type=INT32"`
}

// SongplayRow is one row of the songplays fact table. user_id, session_id
// and user_agent are renamed from their camelCase log-event names as part of
// the projection. A play matching several songs rows fans out into several
// fact rows that share a songplay_id.
type SongplayRow struct {
	SongplayID int64   `parquet:"name=songplay_id, type=INT64"`
	StartTime  string  `parquet:"name=start_time, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserID     string  `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Level      string  `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8"`
	SongID     int64   `parquet:"name=song_id, type=INT64"`
	ArtistID   string  `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	SessionID  int64   `parquet:"name=session_id, type=INT64"`
	Location   string  `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserAgent  string  `parquet:"name=user_agent, type=BYTE_ARRAY, convertedtype=UTF8"`
	Year       int32   `parquet:"name=year, type=INT32"`
	Month      int32   `parquet:"name=month, type=INT32"`
}

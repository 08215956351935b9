package etl

import (
	"fmt"
	"math"

	"sparkify_etl/internal/schema"
)

// Matcher decides whether a played track's length matches a catalog
// duration.
type Matcher func(length, duration float64) bool

// ExactMatch is the original join semantics: bitwise float equality, no
// tolerance. Durations sourced from independent pipelines rarely compare
// equal, so a low match rate is expected rather than an error.
func ExactMatch(length, duration float64) bool {
	return length == duration
}

// EpsilonMatch returns a matcher accepting |length-duration| <= epsilon.
func EpsilonMatch(epsilon float64) Matcher {
	return func(length, duration float64) bool {
		return math.Abs(length-duration) <= epsilon
	}
}

// MatcherFor picks the join predicate for a configured epsilon. Zero keeps
// exact equality.
func MatcherFor(epsilon float64) Matcher {
	if epsilon <= 0 {
		return ExactMatch
	}
	return EpsilonMatch(epsilon)
}

// BuildSongplays joins filtered play events against the persisted songs
// table on (song == title, match(length, duration)) and projects the fact
// columns, renaming userId/sessionId/userAgent to their snake_case output
// names. songplay_id is assigned per event row before the join, so a play
// matching several songs fans out into rows sharing one id; a play matching
// nothing contributes no rows.
func BuildSongplays(plays []schema.LogEvent, songs []schema.SongRow, ids *IDGenerator, match Matcher) []schema.SongplayRow {
	byTitle := make(map[string][]schema.SongRow, len(songs))
	for _, s := range songs {
		byTitle[s.Title] = append(byTitle[s.Title], s)
	}

	var rows []schema.SongplayRow
	for _, e := range plays {
		songplayID := ids.Next()
		t := DecomposeUTC(e.TS)
		for _, s := range byTitle[e.Song] {
			if !match(e.Length, s.Duration) {
				continue
			}
			rows = append(rows, schema.SongplayRow{
				SongplayID: songplayID,
				StartTime:  t.StartTime,
				UserID:     e.UserID,
				Level:      e.Level,
				SongID:     s.SongID,
				ArtistID:   s.ArtistID,
				SessionID:  e.SessionID,
				Location:   e.Location,
				UserAgent:  e.UserAgent,
				Year:       t.Year,
				Month:      t.Month,
			})
		}
	}
	return rows
}

// SongplayPartition maps a fact row to its (year, month) partition path.
func SongplayPartition(r schema.SongplayRow) string {
	return fmt.Sprintf("year=%d/month=%d", r.Year, r.Month)
}

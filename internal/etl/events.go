package etl

import (
	"fmt"

	"sparkify_etl/internal/schema"
)

// pageNextSong is the only page event type that counts as a song play.
const pageNextSong = "NextSong"

// FilterPlays keeps only NextSong events. Every other page type is dropped;
// nothing downstream uses them.
func FilterPlays(events []schema.LogEvent) []schema.LogEvent {
	plays := make([]schema.LogEvent, 0, len(events))
	for _, e := range events {
		if e.Page == pageNextSong {
			plays = append(plays, e)
		}
	}
	return plays
}

// BuildUsers projects filtered play events to the users dimension and drops
// exact duplicates. A user whose level changed produces one row per distinct
// level; there is no latest-wins resolution.
func BuildUsers(plays []schema.LogEvent) []schema.UserRow {
	rows := make([]schema.UserRow, 0, len(plays))
	for _, e := range plays {
		rows = append(rows, schema.UserRow{
			UserID:    e.UserID,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Gender:    e.Gender,
			Level:     e.Level,
		})
	}
	return Distinct(rows)
}

// BuildTime derives the time dimension from filtered play events: one row
// per distinct event timestamp, decomposed under the pinned UTC policy.
func BuildTime(plays []schema.LogEvent) []schema.TimeRow {
	ts := make([]int64, 0, len(plays))
	for _, e := range plays {
		ts = append(ts, e.TS)
	}
	ts = Distinct(ts)

	rows := make([]schema.TimeRow, 0, len(ts))
	for _, t := range ts {
		rows = append(rows, DecomposeUTC(t))
	}
	return rows
}

// TimePartition maps a time row to its (year, month) partition path.
func TimePartition(r schema.TimeRow) string {
	return fmt.Sprintf("year=%d/month=%d", r.Year, r.Month)
}

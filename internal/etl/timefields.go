package etl

import (
	"time"

	"sparkify_etl/internal/schema"
)

// StartTimeLayout is the ISO-8601 layout of start_time strings, millisecond
// precision.
const StartTimeLayout = "2006-01-02T15:04:05.000"

// DecomposeUTC expands an epoch-millis timestamp into the time dimension
// fields. The conversion is pinned to UTC so results are reproducible across
// environments. Weekday is anchored 0 = Sunday, per time.Weekday; week is
// the ISO week of year.
func DecomposeUTC(tsMillis int64) schema.TimeRow {
	t := time.UnixMilli(tsMillis).UTC()
	_, week := t.ISOWeek()
	return schema.TimeRow{
		StartTime: t.Format(StartTimeLayout),
		Hour:      int32(t.Hour()),
		Day:       int32(t.Day()),
		Week:      int32(week),
		Month:     int32(t.Month()),
		Year:      int32(t.Year()),
		Weekday:   int32(t.Weekday()),
	}
}

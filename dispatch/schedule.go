package dispatch

import "time"

// RoundToSchedule rounds a send time to the nearest 5-minute mark, which
// Sendy requires for scheduled campaigns. Seconds are dropped; a round up
// from minute 58 or 59 carries into the next hour.
func RoundToSchedule(t time.Time) time.Time {
	rounded := (t.Minute() + 2) / 5 * 5

	base := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	return base.Add(time.Duration(rounded) * time.Minute)
}

// FormatScheduleTime renders a time the way Sendy's schedule_date_time field
// expects: "June 15, 2021 6:05pm". Day and hour carry no leading zero and
// the meridiem is lowercase.
func FormatScheduleTime(t time.Time) string {
	return t.Format("January 2, 2006 3:04pm")
}

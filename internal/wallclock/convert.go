// Package wallclock converts a shiftsolve.DayShift (day index + bucket
// offset, both relative to an organization's configured week start) into
// absolute start/end instants in a given IANA timezone.
package wallclock

import (
	"time"

	"github.com/staffjoy/shiftsolve/internal/shiftsolve"
)

// WallClockShift is a DayShift resolved to absolute instants, ready for
// publication.
type WallClockShift struct {
	Start time.Time
	End   time.Time
}

// Convert maps a DayShift onto absolute time, given weekStart (midnight
// of the week's first configured day) and the bucket width in minutes.
// DST is handled entirely by time.Date's normalization: a wall-clock
// time that does not exist (spring-forward) or is ambiguous
// (fall-back) is resolved the way the Go time package always resolves
// it — there is no bespoke tie-break logic here, matching spec.md's
// framing of DST-aware conversion as an adapter concern, not a core one.
func Convert(day int, bucket int, shiftLength int, weekStart time.Time, loc *time.Location, bucketMinutes int) WallClockShift {
	base := weekStart.In(loc).AddDate(0, 0, day)
	start := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, loc).
		Add(time.Duration(bucket*bucketMinutes) * time.Minute)
	end := start.Add(time.Duration(shiftLength*bucketMinutes) * time.Minute)
	return WallClockShift{Start: start, End: end}
}

// ConvertAll maps every DayShift in shifts.
func ConvertAll(shifts []shiftsolve.DayShift, weekStart time.Time, loc *time.Location, bucketMinutes int) []WallClockShift {
	out := make([]WallClockShift, len(shifts))
	for i, s := range shifts {
		out[i] = Convert(s.Day, s.Start, s.Length, weekStart, loc, bucketMinutes)
	}
	return out
}

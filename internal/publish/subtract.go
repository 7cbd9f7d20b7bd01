package publish

import (
	"time"

	"github.com/staffjoy/shiftsolve/internal/wallclock"
)

// SubtractExisting decrements demand by the count of already-published
// shifts covering each hourly bucket, floored at zero, restoring
// chomp/tasking.py's _subtract_existing_shifts_from_demand ahead of a
// Splitter call: a worker already scheduled for an hour reduces how much
// more coverage that hour still needs, rather than having the candidate
// result filtered after the fact. weekStart is the local midnight that
// begins day 0 of demand. maxShiftLengthHours widens the window existing
// is scanned against on both ends of the week, the same margin the
// original queries with, so a shift that starts before the week or ends
// after it still counts against the buckets it actually covers.
func SubtractExisting(demand [][]int, existing []wallclock.WallClockShift, maxShiftLengthHours int, weekStart time.Time) [][]int {
	weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())

	out := make([][]int, len(demand))
	for d, row := range demand {
		out[d] = append([]int(nil), row...)
	}

	margin := time.Duration(maxShiftLengthHours) * time.Hour
	windowStart := weekStart.Add(-margin)
	windowEnd := weekStart.AddDate(0, 0, len(demand)).Add(margin)

	relevant := make([]wallclock.WallClockShift, 0, len(existing))
	for _, e := range existing {
		if e.Start.Before(windowEnd) && e.End.After(windowStart) {
			relevant = append(relevant, e)
		}
	}

	for d, row := range out {
		dayStart := weekStart.AddDate(0, 0, d)
		for b := range row {
			bucketStart := dayStart.Add(time.Duration(b) * time.Hour)
			bucketEnd := bucketStart.Add(time.Hour)

			staffed := 0
			for _, e := range relevant {
				if e.Start.Before(bucketEnd) && e.End.After(bucketStart) {
					staffed++
				}
			}

			row[b] -= staffed
			if row[b] < 0 {
				row[b] = 0
			}
		}
	}
	return out
}

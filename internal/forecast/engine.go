package forecast

import (
	"math"
	"time"
)

// WindowFromRange derives the SMA window (in weeks) from the requested date
// range: ceil(days/7) with a two-week floor. This is a global policy shared
// by every item in the batch.
func WindowFromRange(start, end time.Time) int {
	days := DaysInRange(start, end)
	window := int(math.Ceil(float64(days) / 7))
	if window < 2 {
		window = 2
	}
	return window
}

// DaysInRange counts the calendar days covered by the inclusive range,
// never less than 1 so per-day averages cannot divide by zero.
func DaysInRange(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// EffectiveWindow clamps the requested window to the available history.
func EffectiveWindow(requested, seriesLen int) int {
	if seriesLen < requested {
		return seriesLen
	}
	return requested
}

// SMA forecasts the next week as the rounded mean of the last window
// buckets. Callers must pass window in [1, len(buckets)].
func SMA(buckets []WeekBucket, window int) int {
	recent := buckets[len(buckets)-window:]
	total := 0
	for _, b := range recent {
		total += b.Quantity
	}
	return roundHalfUp(float64(total) / float64(window))
}

func roundHalfUp(v float64) int {
	return int(math.Round(v))
}

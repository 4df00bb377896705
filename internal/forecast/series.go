package forecast

import "sort"

// AggregateWeekly groups sales into per-week totals, ordered ascending by
// ISO (year, week). Weeks without sales are absent, not zero-filled; an
// empty input yields an empty series which downstream stages treat as
// insufficient data rather than an error.
func AggregateWeekly(sales []Sale) []WeekBucket {
	totals := make(map[WeekKey]int)
	for _, s := range sales {
		totals[WeekOf(s.OccurredAt)] += s.Quantity
	}

	buckets := make([]WeekBucket, 0, len(totals))
	for key, qty := range totals {
		buckets = append(buckets, WeekBucket{Key: key, Quantity: qty})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key.Before(buckets[j].Key)
	})
	return buckets
}

// PeakWeekly returns the largest weekly total, 0 for an empty series.
func PeakWeekly(buckets []WeekBucket) int {
	peak := 0
	for _, b := range buckets {
		if b.Quantity > peak {
			peak = b.Quantity
		}
	}
	return peak
}

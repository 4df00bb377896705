package forecast

import (
	"fmt"
	"time"
)

// WeekKey identifies an ISO-8601 calendar week. The ISO year near a year
// boundary may differ from the calendar year: Dec 29-31 can fall into week 1
// of the next ISO year and Jan 1-3 into week 52/53 of the previous one.
type WeekKey struct {
	Year int
	Week int
}

// WeekOf buckets a timestamp into its ISO week. Weeks start on Monday and
// week 1 is the week containing the year's first Thursday.
func WeekOf(t time.Time) WeekKey {
	year, week := t.ISOWeek()
	return WeekKey{Year: year, Week: week}
}

// Before orders keys chronologically.
func (k WeekKey) Before(other WeekKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Week < other.Week
}

// String renders the key as e.g. "2024-W05".
func (k WeekKey) String() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
}

// WeekBucket is the total SALE quantity of one item in one ISO week.
type WeekBucket struct {
	Key      WeekKey
	Quantity int
}

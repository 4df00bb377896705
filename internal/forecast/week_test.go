package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestWeekOfYearBoundaries(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want WeekKey
	}{
		{"midyear", date(2024, time.June, 5), WeekKey{2024, 23}},
		{"dec 31 belongs to next iso year", date(2024, time.December, 31), WeekKey{2025, 1}},
		{"jan 1 belongs to previous iso year", date(2023, time.January, 1), WeekKey{2022, 52}},
		{"week 53 year", date(2021, time.January, 1), WeekKey{2020, 53}},
		{"monday starts the week", date(2024, time.January, 1), WeekKey{2024, 1}},
		{"sunday ends the week", date(2024, time.January, 7), WeekKey{2024, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, WeekOf(tc.in))
		})
	}
}

func TestWeekKeyOrdering(t *testing.T) {
	require.True(t, WeekKey{2022, 52}.Before(WeekKey{2023, 1}))
	require.True(t, WeekKey{2023, 1}.Before(WeekKey{2023, 2}))
	require.False(t, WeekKey{2023, 2}.Before(WeekKey{2023, 2}))
}

func TestWeekKeyString(t *testing.T) {
	require.Equal(t, "2024-W05", WeekKey{2024, 5}.String())
	require.Equal(t, "2020-W53", WeekKey{2020, 53}.String())
}

func TestAggregateWeekly(t *testing.T) {
	sales := []Sale{
		{OccurredAt: date(2024, time.January, 10), Quantity: 3},
		{OccurredAt: date(2024, time.January, 8), Quantity: 2},
		{OccurredAt: date(2024, time.January, 1), Quantity: 5},
		{OccurredAt: date(2024, time.January, 22), Quantity: 7},
	}

	buckets := AggregateWeekly(sales)
	require.Len(t, buckets, 3)
	require.Equal(t, WeekKey{2024, 1}, buckets[0].Key)
	require.Equal(t, 5, buckets[0].Quantity)
	// Two sales in week 2 merge into one bucket. Week 3 had no sales and is
	// absent rather than zero-filled.
	require.Equal(t, WeekKey{2024, 2}, buckets[1].Key)
	require.Equal(t, 5, buckets[1].Quantity)
	require.Equal(t, WeekKey{2024, 4}, buckets[2].Key)
	require.Equal(t, 7, buckets[2].Quantity)
}

func TestAggregateWeeklyEmpty(t *testing.T) {
	require.Empty(t, AggregateWeekly(nil))
}

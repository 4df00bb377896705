package forecast

import "math"

// MAPE estimates forecast accuracy as a rounded integer percentage without
// leaking future observations into past forecasts. Strategy selection:
//
//   - len(series) >= window+1: rolling-origin backtest
//   - len(series) == window and window >= 3: leave-one-out cross-validation
//   - otherwise: 0, too little history for an error estimate
//
// Weeks with zero actual sales are skipped entirely so the percentage error
// never divides by zero.
func MAPE(buckets []WeekBucket, window int) int {
	switch {
	case len(buckets) >= window+1:
		return rollingOriginMAPE(buckets, window)
	case len(buckets) == window && window >= 3:
		return leaveOneOutMAPE(buckets)
	default:
		return 0
	}
}

// rollingOriginMAPE forecasts each week from index window onward using the
// average of the window weeks before it.
func rollingOriginMAPE(buckets []WeekBucket, window int) int {
	totalError := 0.0
	valid := 0

	for i := window; i < len(buckets); i++ {
		actual := buckets[i].Quantity
		if actual <= 0 {
			continue
		}
		sum := 0
		for _, b := range buckets[i-window : i] {
			sum += b.Quantity
		}
		predicted := float64(sum) / float64(window)
		totalError += math.Abs(float64(actual)-predicted) / float64(actual)
		valid++
	}

	return percentage(totalError, valid)
}

// leaveOneOutMAPE forecasts each week as the average of every other week.
func leaveOneOutMAPE(buckets []WeekBucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Quantity
	}

	totalError := 0.0
	valid := 0
	for _, b := range buckets {
		actual := b.Quantity
		if actual <= 0 {
			continue
		}
		predicted := float64(total-actual) / float64(len(buckets)-1)
		totalError += math.Abs(float64(actual)-predicted) / float64(actual)
		valid++
	}

	return percentage(totalError, valid)
}

func percentage(totalError float64, valid int) int {
	if valid == 0 {
		return 0
	}
	return roundHalfUp(totalError / float64(valid) * 100)
}

package forecast

// SafetyStock sizes the buffer that covers the gap between worst-case and
// average demand over the lead time:
//
//	SS = (peak daily demand × lead time) − (average daily demand × lead time)
//
// Peak daily demand is the best week divided by 7; average daily demand is
// the whole range's sales divided by the days in range. A negative result
// clamps to zero.
func SafetyStock(totalSold, daysInRange, peakWeekly, leadTimeDays int) int {
	avgDaily := float64(totalSold) / float64(daysInRange)
	peakDaily := float64(peakWeekly) / 7

	ss := roundHalfUp(peakDaily*float64(leadTimeDays) - avgDaily*float64(leadTimeDays))
	if ss < 0 {
		return 0
	}
	return ss
}

// RecommendedPurchase is the order quantity that brings stock up to the
// forecast plus safety buffer; zero when stock already suffices.
func RecommendedPurchase(forecast, safetyStock, currentStock int) int {
	qty := forecast + safetyStock - currentStock
	if qty < 0 {
		return 0
	}
	return qty
}

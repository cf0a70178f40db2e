package workflow

import "time"

const day = 24 * time.Hour

// BillableDays converts the time between checkout and return into whole
// rental days. Any partial day counts as a full day, but an exact
// multiple of 24h is not rounded up further: 7.02 days bills as 8,
// exactly 2.0 days bills as 2. Non-positive elapsed time bills as zero.
func BillableDays(dateOut, returnedAt time.Time) int {
	elapsed := returnedAt.Sub(dateOut)
	if elapsed <= 0 {
		return 0
	}
	days := int(elapsed / day)
	if elapsed%day != 0 {
		days++
	}
	return days
}

// Fee computes the rental fee for a return using the daily rate captured
// in the rental's movie snapshot at checkout time.
func Fee(dailyRentalRate float64, dateOut, returnedAt time.Time) float64 {
	return float64(BillableDays(dateOut, returnedAt)) * dailyRentalRate
}

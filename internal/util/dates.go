package util

import "time"

// GetMonthDates returns the first and last calendar day of the given month.
// Record dates are UTC midnights, so the bounds are too.
func GetMonthDates(month int, year int) (time.Time, time.Time) {
	goMonth := time.Month(month)

	var y int
	if year > 0 {
		y = year
	} else {
		y = time.Now().UTC().Year()
	}

	firstOfMonth := time.Date(y, goMonth, 1, 0, 0, 0, 0, time.UTC)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	return firstOfMonth, lastOfMonth
}

// GetYearDates returns January 1st and December 31st of the given year.
func GetYearDates(year int) (time.Time, time.Time) {
	firstOfYear := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	lastOfYear := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	return firstOfYear, lastOfYear
}

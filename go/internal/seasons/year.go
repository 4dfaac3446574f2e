package seasons

import "time"

// CurrentYear is the pool season in progress at now. The NFL playoffs run
// in January and February, so January through August still belong to the
// season that kicked off the previous September.
func CurrentYear(now time.Time) int {
	if now.Month() < time.September {
		return now.Year() - 1
	}
	return now.Year()
}

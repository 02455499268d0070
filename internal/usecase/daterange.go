package usecase

import (
	"fmt"
	"time"

	"StockHub/pkg/util"
)

// checkRange requires from < to, neither after today, and at most maxDays apart.
func checkRange(from, to, now time.Time, maxDays int) error {
	today := util.StartOfDay(now)
	if from.After(today) {
		return &RangeError{Field: "from", Reason: "start date is in the future"}
	}
	if to.After(today) {
		return &RangeError{Field: "to", Reason: "end date is in the future"}
	}
	if !from.Before(to) {
		return &RangeError{Field: "from", Reason: "start date must be before end date"}
	}
	if maxDays > 0 && util.DaysBetween(from, to) > maxDays {
		return &RangeError{Field: "to", Reason: fmt.Sprintf("range exceeds %d days", maxDays)}
	}
	return nil
}

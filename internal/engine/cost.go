package engine

import (
	"math"
	"time"
)

// Cost is the final charge for a closed reservation: elapsed hours times the
// lot's hourly rate, rounded to 2 decimal places.
func Cost(entry, exit time.Time, hourlyRate float64) float64 {
	hours := exit.Sub(entry).Seconds() / 3600.0
	return math.Round(hours*hourlyRate*100) / 100
}

// RunningCost is the charge accrued so far by an open reservation. It is
// recomputed on every read and never persisted.
func RunningCost(entry, now time.Time, hourlyRate float64) float64 {
	hours := now.Sub(entry).Seconds() / 3600.0
	return hours * hourlyRate
}

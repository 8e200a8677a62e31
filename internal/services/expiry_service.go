package services

import (
	"math"
	"time"
)

type ExpiryClass string

const (
	ExpiryExpired  ExpiryClass = "EXPIRED"
	ExpiryCritical ExpiryClass = "CRITICAL"
	ExpiryWarning  ExpiryClass = "WARNING"
	ExpirySoon     ExpiryClass = "SOON"
	ExpiryOK       ExpiryClass = "OK"
)

const day = 24 * time.Hour

// DaysLeft is the ceiling of the whole days between now and expiry. A
// document expiring in 30.1 days has 31 days left; one expiring later today
// has 0 or 1 depending on the remaining fraction.
func DaysLeft(expiry, now time.Time) int64 {
	return int64(math.Ceil(float64(expiry.Sub(now)) / float64(day)))
}

// ClassifyDays maps a day count to its severity. Boundaries 7, 14 and 30 fall
// in the more urgent class.
func ClassifyDays(daysLeft int64) ExpiryClass {
	switch {
	case daysLeft < 0:
		return ExpiryExpired
	case daysLeft <= 7:
		return ExpiryCritical
	case daysLeft <= 14:
		return ExpiryWarning
	case daysLeft <= 30:
		return ExpirySoon
	default:
		return ExpiryOK
	}
}

func Classify(expiry, now time.Time) ExpiryClass {
	return ClassifyDays(DaysLeft(expiry, now))
}

// ExpiryStatus is the badge data shown next to a document.
type ExpiryStatus struct {
	Class    ExpiryClass `json:"class"`
	DaysLeft int64       `json:"daysLeft"`
}

func ClassifyExpiry(expiry, now time.Time) ExpiryStatus {
	days := DaysLeft(expiry, now)
	return ExpiryStatus{Class: ClassifyDays(days), DaysLeft: days}
}

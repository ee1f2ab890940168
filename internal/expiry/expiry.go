// Package expiry classifies documents by how many calendar days remain before they expire.
package expiry

import (
	"errors"
	"strings"
	"time"
)

// Status is the lifecycle state of a document.
type Status string

const (
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
	// StatusUnknown marks documents whose expiry date cannot be parsed.
	StatusUnknown Status = "unknown"
)

// ExpiringWindowDays is the number of days before expiry during which a document counts as expiring.
const ExpiringWindowDays = 30

// ErrInvalidDate is returned when an expiry date cannot be parsed.
var ErrInvalidDate = errors.New("invalid expiry date")

const secondsPerDay = 24 * 60 * 60

// Accepted expiry date layouts, most specific last. Time of day is discarded after parsing.
var layouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses an expiry date and returns midnight of that calendar day in loc.
// Date-only values are interpreted as calendar days in loc; timestamps carrying an
// offset keep the calendar day they name in their own zone.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return Midnight(t, loc), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Midnight strips the time of day, keeping the calendar day t falls on in its own zone,
// and returns 00:00 of that day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysRemaining returns ceil((midnight(expiry) - midnight(today)) / 1 day).
// Both arguments are reduced to their calendar day first, so the result is a whole
// number of days that does not depend on the time of day or on DST transitions.
func DaysRemaining(expiry, today time.Time) int {
	ey, em, ed := expiry.Date()
	ty, tm, td := today.Date()
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	// Unix seconds rather than Sub: a Duration saturates near 292 years.
	return int((e.Unix() - t.Unix()) / secondsPerDay)
}

// Classify maps days remaining to a status. Zero days remaining is expired.
func Classify(daysRemaining int) Status {
	switch {
	case daysRemaining <= 0:
		return StatusExpired
	case daysRemaining <= ExpiringWindowDays:
		return StatusExpiring
	default:
		return StatusActive
	}
}

// Result is the classification of a single expiry date.
type Result struct {
	Status        Status `json:"status"`
	DaysRemaining int    `json:"days_remaining"`
	Valid         bool   `json:"-"`
}

// Evaluate parses expiryDate and classifies it relative to today in loc.
// An unparseable date yields StatusUnknown with Valid=false rather than an error.
func Evaluate(expiryDate string, today time.Time, loc *time.Location) Result {
	exp, err := ParseDate(expiryDate, loc)
	if err != nil {
		return Result{Status: StatusUnknown}
	}
	if loc != nil {
		today = today.In(loc)
	}
	days := DaysRemaining(exp, today)
	return Result{Status: Classify(days), DaysRemaining: days, Valid: true}
}

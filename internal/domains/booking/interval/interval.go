// Package interval holds the overlap rules for bookings.
//
// Every interval is half-open: it contains Start and excludes End, so two
// bookings that touch at a boundary never conflict.
package interval

import (
	"errors"
	"time"
)

var ErrInvalidInterval = errors.New("start must be before end")

type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New returns an interval only when start is strictly before end.
func New(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}

	return Interval{Start: start, End: end}, nil
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Empty reports whether the interval covers no instant.
func (i Interval) Empty() bool {
	return !i.Start.Before(i.End)
}

// Contains reports whether t lies in [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Conflicts reports whether the two intervals share any instant.
// An empty interval conflicts with nothing.
func Conflicts(existing, candidate Interval) bool {
	if existing.Empty() || candidate.Empty() {
		return false
	}

	return existing.Start.Before(candidate.End) && existing.End.After(candidate.Start)
}

// IsAdmissible reports whether candidate conflicts with none of existing.
func IsAdmissible(candidate Interval, existing []Interval) bool {
	for _, booked := range existing {
		if Conflicts(booked, candidate) {
			return false
		}
	}

	return true
}

package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

// Teaching hours and meeting length bounds, in minutes.
const (
	EarliestStart      = 7 * 60
	LatestEnd          = 22 * 60
	MinMeetingDuration = 30
	MaxMeetingDuration = 4 * 60
)

var (
	ErrMeetingIncomplete = errors.New("meeting needs both a day and a time")
	ErrUnknownWeekday    = errors.New("unknown weekday")
	ErrMalformedTime     = errors.New("malformed time range")
	ErrOutsideHours      = errors.New("meeting outside teaching hours")
	ErrMeetingDuration   = errors.New("meeting duration out of range")
)

// ValidateMeeting checks that a single day/time meeting is plausible.
func ValidateMeeting(day, timeRange string) error {
	day = strings.TrimSpace(day)
	timeRange = strings.TrimSpace(timeRange)
	if day == "" || timeRange == "" {
		return ErrMeetingIncomplete
	}
	if _, ok := ParseWeekday(day); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWeekday, day)
	}

	span := ParseRange(timeRange)
	if span.IsZero() {
		return fmt.Errorf("%w: %q", ErrMalformedTime, timeRange)
	}
	if span.Start < EarliestStart || span.End > LatestEnd {
		return fmt.Errorf("%w: %s", ErrOutsideHours, span)
	}
	if d := span.Duration(); d < MinMeetingDuration || d > MaxMeetingDuration {
		return fmt.Errorf("%w: %d minutes", ErrMeetingDuration, d)
	}
	return nil
}

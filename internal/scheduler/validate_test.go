package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMeeting(t *testing.T) {
	cases := []struct {
		name string
		day  string
		time string
		err  error
	}{
		{"theory slot", "Sat", "08:30 AM - 09:50 AM", nil},
		{"lab slot", "Wednesday", "08:30 AM - 11:10 AM", nil},
		{"missing day", "", "08:30 AM - 09:50 AM", ErrMeetingIncomplete},
		{"missing time", "Sat", " ", ErrMeetingIncomplete},
		{"unknown day", "Funday", "08:30 AM - 09:50 AM", ErrUnknownWeekday},
		{"malformed", "Sat", "morning", ErrMalformedTime},
		{"too early", "Sat", "06:30 AM - 07:30 AM", ErrOutsideHours},
		{"too late", "Sat", "09:00 PM - 10:30 PM", ErrOutsideHours},
		{"too short", "Sat", "08:30 AM - 08:45 AM", ErrMeetingDuration},
		{"too long", "Sat", "08:30 AM - 01:30 PM", ErrMeetingDuration},
		{"reversed", "Sat", "10:00 AM - 09:00 AM", ErrMeetingDuration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMeeting(tc.day, tc.time)
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestStandardSlotsAreValid(t *testing.T) {
	for _, slot := range append(append([]string{}, TheoryTimeSlots...), LabTimeSlots...) {
		assert.NoError(t, ValidateMeeting("Sun", slot), slot)
	}
}

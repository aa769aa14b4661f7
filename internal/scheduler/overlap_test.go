package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/section-planner-api/internal/models"
)

func TestParseTimeRange(t *testing.T) {
	cases := []struct {
		name       string
		input      string
		start, end int
	}{
		{"standard", "08:30 AM - 09:50 AM", 510, 590},
		{"colon format", "08:30:AM - 09:50:AM", 510, 590},
		{"noon", "12:00 PM - 01:20 PM", 720, 800},
		{"midnight hour", "12:15 AM - 01:00 AM", 15, 60},
		{"single digit lower case", "8:30 am - 9:50 pm", 510, 1310},
		{"extra spaces", "  03:11 PM  -  04:30 PM ", 911, 990},
		{"empty", "", 0, 0},
		{"whitespace", "   ", 0, 0},
		{"placeholder", "-", 0, 0},
		{"missing end", "08:30 AM", 0, 0},
		{"three parts", "08:30 AM - 09:50 AM - 10:00 AM", 0, 0},
		{"hour out of range", "13:00 PM - 02:00 PM", 0, 0},
		{"minute out of range", "08:75 AM - 09:50 AM", 0, 0},
		{"no space before meridiem", "08:30AM - 09:50AM", 0, 0},
		{"garbage", "TBA - TBA", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := ParseTimeRange(tc.input)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
		})
	}
}

func TestParseTimeRangeNoOrderingCheck(t *testing.T) {
	start, end := ParseTimeRange("10:00 AM - 09:00 AM")
	assert.Equal(t, 600, start)
	assert.Equal(t, 540, end)
}

func TestTimeRangeString(t *testing.T) {
	assert.Equal(t, "12:31 PM - 01:50 PM", ParseRange("12:31:PM - 01:50:PM").String())
	assert.Equal(t, "", TimeRange{}.String())
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{"overlap", "08:30 AM - 09:50 AM", "09:00 AM - 10:00 AM", true},
		{"contained", "08:30 AM - 11:10 AM", "09:51 AM - 11:10 AM", true},
		{"touching", "08:30 AM - 09:50 AM", "09:50 AM - 11:10 AM", false},
		{"adjacent slots", "08:30 AM - 09:50 AM", "09:51 AM - 11:10 AM", false},
		{"left absent", "", "08:30 AM - 09:50 AM", false},
		{"right malformed", "08:30 AM - 09:50 AM", "soon", false},
		{"identical", "01:51 PM - 03:10 PM", "01:51 PM - 03:10 PM", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RangesOverlap(tc.a, tc.b))
			assert.Equal(t, tc.want, RangesOverlap(tc.b, tc.a))
		})
	}
}

func twoDay(code, label, day1, day2, slot string) models.Section {
	return models.Section{CourseCode: code, SectionLabel: label, Credit: 3, Day1: day1, Day2: day2, Time1: slot, Time2: slot}
}

func TestSectionsConflictNeedsSharedDay(t *testing.T) {
	a := twoDay("CSE1111", "A", "Sat", "Tue", "08:30 AM - 09:50 AM")
	b := twoDay("MAT2105", "A", "Sun", "Wed", "08:30 AM - 09:50 AM")
	assert.False(t, SectionsConflict(a, b))

	b = twoDay("MAT2105", "A", "Saturday", "Wed", "08:30 AM - 09:50 AM")
	assert.True(t, SectionsConflict(a, b))
}

func TestSectionsConflictEmptySlotNeverConflicts(t *testing.T) {
	a := models.Section{Day1: "Sat", Time1: "08:30 AM - 09:50 AM"}
	b := models.Section{Day1: "Sat", Time1: "08:30 AM - 09:50 AM"}

	// Positional pairing compares a.time1 with b.time2, which is absent.
	assert.False(t, SectionsConflict(a, b))
	assert.True(t, Detector{Mode: PairingCrossProduct}.Conflict(a, b))
}

func TestSectionsConflictPairing(t *testing.T) {
	a := models.Section{Day1: "Sun", Day2: "Wed", Time1: "08:30 AM - 09:50 AM", Time2: "11:11 AM - 12:30 PM"}
	b := models.Section{Day1: "Sun", Day2: "Wed", Time1: "11:11 AM - 12:30 PM", Time2: "03:11 PM - 04:30 PM"}

	// (a.time2, b.time1) overlap.
	assert.True(t, SectionsConflict(a, b))
	assert.Equal(t, SectionsConflict(a, b), SectionsConflict(b, a))

	c := models.Section{Day1: "Sun", Day2: "Wed", Time1: "08:30 AM - 09:50 AM", Time2: "01:51 PM - 03:10 PM"}
	assert.False(t, SectionsConflict(a, c))
	assert.True(t, Detector{Mode: PairingCrossProduct}.Conflict(a, c))
}

func TestSectionsConflictWithoutDays(t *testing.T) {
	a := models.Section{Time1: "08:30 AM - 09:50 AM", Time2: "08:30 AM - 09:50 AM"}
	b := twoDay("X", "A", "Sat", "Tue", "08:30 AM - 09:50 AM")
	assert.False(t, SectionsConflict(a, b))
	assert.False(t, Detector{Mode: PairingCrossProduct}.Conflict(a, b))
}

func TestSectionsConflictUnrecognisedDayStillCompares(t *testing.T) {
	a := twoDay("X", "A", "TBA", "", "08:30 AM - 09:50 AM")
	b := twoDay("Y", "A", "TBA", "", "09:00 AM - 10:00 AM")
	assert.True(t, SectionsConflict(a, b))
}

func TestParsePairingMode(t *testing.T) {
	mode, err := ParsePairingMode("")
	require.NoError(t, err)
	assert.Equal(t, PairingPositional, mode)

	mode, err = ParsePairingMode("Cross")
	require.NoError(t, err)
	assert.Equal(t, PairingCrossProduct, mode)
	assert.Equal(t, "cross", mode.String())

	_, err = ParsePairingMode("random")
	require.Error(t, err)
}

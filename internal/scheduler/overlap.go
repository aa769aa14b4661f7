package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/noah-isme/section-planner-api/internal/models"
)

// TimeRange is a meeting interval in minutes since midnight. The zero value means "no meeting".
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IsZero reports whether the range represents an absent or unparseable meeting.
func (r TimeRange) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// Duration returns the length in minutes.
func (r TimeRange) Duration() int {
	return r.End - r.Start
}

// Overlaps applies the half-open interval test; touching endpoints do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	if r.IsZero() || o.IsZero() {
		return false
	}
	return r.Start < o.End && o.Start < r.End
}

// String renders the range as "08:30 AM - 09:50 AM".
func (r TimeRange) String() string {
	if r.IsZero() {
		return ""
	}
	return formatClock(r.Start) + " - " + formatClock(r.End)
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})\s+([AaPp][Mm])$`)

// ParseTimeRange parses "08:30 AM - 09:50 AM" (or "08:30:AM - 09:50:AM") into minutes since midnight.
// Empty, placeholder and unparseable input yields (0, 0).
func ParseTimeRange(s string) (start, end int) {
	r := ParseRange(s)
	return r.Start, r.End
}

// ParseRange is ParseTimeRange returning a TimeRange.
func ParseRange(s string) TimeRange {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "-" {
		return TimeRange{}
	}
	parts := strings.Split(trimmed, "-")
	if len(parts) != 2 {
		return TimeRange{}
	}
	start, ok := parseClock(parts[0])
	if !ok {
		return TimeRange{}
	}
	end, ok := parseClock(parts[1])
	if !ok {
		return TimeRange{}
	}
	return TimeRange{Start: start, End: end}
}

func parseClock(raw string) (int, bool) {
	value := strings.TrimSpace(raw)
	value = strings.Replace(value, ":AM", " AM", 1)
	value = strings.Replace(value, ":PM", " PM", 1)

	m := clockPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, false
	}
	hour %= 12
	if strings.EqualFold(m[3], "PM") {
		hour += 12
	}
	return hour*60 + minute, true
}

func formatClock(minutes int) string {
	hour := minutes / 60
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, minutes%60, suffix)
}

// RangesOverlap reports whether two time-range strings overlap. Absent or invalid ranges never overlap.
func RangesOverlap(a, b string) bool {
	return ParseRange(a).Overlaps(ParseRange(b))
}

// PairingMode selects which meeting slots of two sections are compared.
type PairingMode int

const (
	// PairingPositional compares (a.time1, b.time2) and, when both are set, (a.time2, b.time1).
	PairingPositional PairingMode = iota
	// PairingCrossProduct compares all four time1/time2 combinations.
	PairingCrossProduct
)

// ParsePairingMode accepts "positional" (default for empty input) or "cross".
func ParsePairingMode(raw string) (PairingMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "positional", "legacy":
		return PairingPositional, nil
	case "cross", "cross_product", "full":
		return PairingCrossProduct, nil
	default:
		return PairingPositional, fmt.Errorf("unknown pairing mode %q", raw)
	}
}

// String returns the config name of the mode.
func (m PairingMode) String() string {
	if m == PairingCrossProduct {
		return "cross"
	}
	return "positional"
}

// Detector decides whether two sections conflict.
type Detector struct {
	Mode PairingMode
}

// Conflict reports whether a and b share a weekday and have an overlapping tested slot pair.
func (d Detector) Conflict(a, b models.Section) bool {
	if !sharesDay(a, b) {
		return false
	}
	if d.Mode == PairingCrossProduct {
		return crossConflict(a, b)
	}
	if RangesOverlap(a.Time1, b.Time2) {
		return true
	}
	if strings.TrimSpace(a.Time2) != "" && strings.TrimSpace(b.Time1) != "" {
		return RangesOverlap(a.Time2, b.Time1)
	}
	return false
}

// crossConflict tests every time1/time2 combination of the two sections.
func crossConflict(a, b models.Section) bool {
	for _, ta := range []string{a.Time1, a.Time2} {
		for _, tb := range []string{b.Time1, b.Time2} {
			if RangesOverlap(ta, tb) {
				return true
			}
		}
	}
	return false
}

// SectionsConflict is the positional detector used by default.
func SectionsConflict(a, b models.Section) bool {
	return Detector{Mode: PairingPositional}.Conflict(a, b)
}

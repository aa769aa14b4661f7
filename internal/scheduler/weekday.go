package scheduler

import (
	"strings"

	"github.com/noah-isme/section-planner-api/internal/models"
)

// Weekday is a day of the academic week, which starts on Saturday.
type Weekday int

const (
	Saturday Weekday = iota
	Sunday
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
)

// DaysInWeek is the number of weekdays counted for free-day statistics.
const DaysInWeek = 7

var weekdayNames = [DaysInWeek]string{"Saturday", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

var weekdayLookup = func() map[string]Weekday {
	lookup := make(map[string]Weekday, DaysInWeek*2)
	for i, name := range weekdayNames {
		lookup[strings.ToLower(name)] = Weekday(i)
		lookup[strings.ToLower(name[:3])] = Weekday(i)
	}
	return lookup
}()

// ParseWeekday maps a full ("Saturday") or abbreviated ("Sat") label, in any case, to its Weekday.
func ParseWeekday(label string) (Weekday, bool) {
	day, ok := weekdayLookup[strings.ToLower(strings.TrimSpace(label))]
	return day, ok
}

// String returns the full weekday name.
func (d Weekday) String() string {
	if d < Saturday || d > Friday {
		return "Unknown"
	}
	return weekdayNames[d]
}

// Short returns the three-letter abbreviation.
func (d Weekday) Short() string {
	if d < Saturday || d > Friday {
		return "???"
	}
	return weekdayNames[d][:3]
}

// AllWeekdays returns the week in order, Saturday first.
func AllWeekdays() []Weekday {
	days := make([]Weekday, DaysInWeek)
	for i := range days {
		days[i] = Weekday(i)
	}
	return days
}

// CanonicalDay rewrites a recognised label to its full name and trims anything else.
func CanonicalDay(label string) string {
	if day, ok := ParseWeekday(label); ok {
		return day.String()
	}
	return strings.TrimSpace(label)
}

// SectionDays returns the recognised weekdays a section meets on, day1 before day2, without duplicates.
func SectionDays(s models.Section) []Weekday {
	days := make([]Weekday, 0, 2)
	for _, label := range []string{s.Day1, s.Day2} {
		day, ok := ParseWeekday(label)
		if !ok {
			continue
		}
		if len(days) == 1 && days[0] == day {
			continue
		}
		days = append(days, day)
	}
	return days
}

// dayKeys returns comparison keys for the section's non-empty day labels.
// Unrecognised labels still compare by their trimmed text.
func dayKeys(s models.Section) []string {
	keys := make([]string, 0, 2)
	for _, label := range []string{s.Day1, s.Day2} {
		if strings.TrimSpace(label) == "" {
			continue
		}
		keys = append(keys, CanonicalDay(label))
	}
	return keys
}

func sharesDay(a, b models.Section) bool {
	left := dayKeys(a)
	if len(left) == 0 {
		return false
	}
	for _, rk := range dayKeys(b) {
		for _, lk := range left {
			if lk == rk {
				return true
			}
		}
	}
	return false
}

// usedWeekdays is a bitmask of recognised weekdays.
type usedWeekdays uint8

func (u *usedWeekdays) add(s models.Section) {
	for _, day := range SectionDays(s) {
		*u |= 1 << uint(day)
	}
}

func (u usedWeekdays) count() int {
	n := 0
	for v := u; v != 0; v &= v - 1 {
		n++
	}
	return n
}

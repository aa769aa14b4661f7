package scheduler

import (
	"fmt"

	"github.com/noah-isme/section-planner-api/internal/models"
)

// ConflictType classifies a clash between two sections.
type ConflictType string

const (
	ConflictTimeOverlap  ConflictType = "time_overlap"
	ConflictSameTimeslot ConflictType = "same_timeslot"
)

// Conflict describes one clashing pair from a hand-picked section list.
type Conflict struct {
	Type    ConflictType `json:"type"`
	First   string       `json:"first"`
	Second  string       `json:"second"`
	Day     string       `json:"day,omitempty"`
	Time    string       `json:"time,omitempty"`
	Message string       `json:"message"`
}

// FindConflicts checks every unordered pair once, in input order.
func (d Detector) FindConflicts(sections []models.Section) []Conflict {
	conflicts := make([]Conflict, 0)
	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			if !d.Conflict(sections[i], sections[j]) {
				continue
			}
			conflicts = append(conflicts, describe(sections[i], sections[j]))
		}
	}
	return conflicts
}

// DescribeConflict renders a message for a pair already known to conflict.
func DescribeConflict(a, b models.Section) string {
	return describe(a, b).Message
}

func describe(a, b models.Section) Conflict {
	c := Conflict{First: a.Label(), Second: b.Label(), Day: sharedDay(a, b)}

	if slot := ParseRange(a.Time1); !slot.IsZero() && slot == ParseRange(b.Time1) {
		c.Type = ConflictSameTimeslot
		c.Time = slot.String()
		c.Message = fmt.Sprintf("Same timeslot conflict: Both courses scheduled at %s", c.Time)
		return c
	}

	day := c.Day
	if day == "" {
		day = "same day"
	}
	c.Type = ConflictTimeOverlap
	c.Message = fmt.Sprintf("Time conflict: %s and %s overlap on %s", c.First, c.Second, day)
	return c
}

func sharedDay(a, b models.Section) string {
	right := dayKeys(b)
	for _, lk := range dayKeys(a) {
		for _, rk := range right {
			if lk == rk {
				return lk
			}
		}
	}
	return ""
}

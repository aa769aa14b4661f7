package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Preferences are the student's ranking flags. All default to false.
type Preferences struct {
	MaxFreeDays bool `json:"maxFreeDays"`
	AvoidEarly  bool `json:"avoidEarly"`
	AvoidLate   bool `json:"avoidLate"`
}

// ScheduleStats are derived from the chosen sections of a candidate.
type ScheduleStats struct {
	FreeDays        int     `json:"freeDays"`
	TotalCredits    float64 `json:"totalCredits"`
	DaysWithClasses int     `json:"daysWithClasses"`
	TotalCourses    int     `json:"totalCourses"`
}

// ScheduleCandidate is one conflict-free assignment of a section per course.
type ScheduleCandidate struct {
	Sections []Section     `json:"sections"`
	Stats    ScheduleStats `json:"stats"`
	Score    int           `json:"score"`
}

// SectionList persists chosen sections as JSONB.
type SectionList []Section

// Value marshals the list to JSON.
func (l SectionList) Value() (driver.Value, error) {
	if l == nil {
		l = SectionList{}
	}
	return marshalJSONValue("section list", l)
}

// Scan unmarshals JSON into the list.
func (l *SectionList) Scan(value interface{}) error {
	*l = SectionList{}
	return scanJSONValue("section list", value, l)
}

// Value marshals stats to JSON.
func (s ScheduleStats) Value() (driver.Value, error) {
	return marshalJSONValue("schedule stats", s)
}

// Scan unmarshals JSON into stats.
func (s *ScheduleStats) Scan(value interface{}) error {
	*s = ScheduleStats{}
	return scanJSONValue("schedule stats", value, s)
}

// Value marshals preferences to JSON.
func (p Preferences) Value() (driver.Value, error) {
	return marshalJSONValue("preferences", p)
}

// Scan unmarshals JSON into preferences.
func (p *Preferences) Scan(value interface{}) error {
	*p = Preferences{}
	return scanJSONValue("preferences", value, p)
}

func marshalJSONValue(name string, v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", name, err)
	}
	return data, nil
}

func scanJSONValue(name string, value interface{}, dest interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, name)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}

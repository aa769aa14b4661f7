package models

import (
	"fmt"
	"strings"
)

// CourseType distinguishes lecture sections from lab sections.
type CourseType string

const (
	CourseTypeTheory CourseType = "Theory"
	CourseTypeLab    CourseType = "Lab"
)

// ParseCourseType accepts the full names and the single-letter codes used in offering sheets.
func ParseCourseType(raw string) (CourseType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "t", "theory":
		return CourseTypeTheory, true
	case "l", "lab", "laboratory":
		return CourseTypeLab, true
	default:
		return "", false
	}
}

// UnmarshalCSV lets gocsv decode "T"/"L" style columns.
func (t *CourseType) UnmarshalCSV(raw string) error {
	parsed, ok := ParseCourseType(raw)
	if !ok {
		return fmt.Errorf("unknown course type %q", raw)
	}
	*t = parsed
	return nil
}

// MarshalCSV writes the full type name.
func (t CourseType) MarshalCSV() (string, error) {
	if t == "" {
		return string(CourseTypeTheory), nil
	}
	return string(t), nil
}

// Section is one offered instance of a course with up to two weekly meetings.
// Day1/Time1 and Day2/Time2 are paired positionally.
type Section struct {
	ID             string     `db:"id" json:"id,omitempty" csv:"-"`
	SemesterID     string     `db:"semester_id" json:"semesterId,omitempty" csv:"-"`
	Program        string     `db:"program" json:"program,omitempty" csv:"program"`
	CourseCode     string     `db:"course_code" json:"courseCode" csv:"course_code" validate:"required,max=32"`
	Title          string     `db:"title" json:"title,omitempty" csv:"title"`
	SectionLabel   string     `db:"section" json:"section" csv:"section" validate:"required,max=16"`
	CourseType     CourseType `db:"course_type" json:"courseType,omitempty" csv:"course_type"`
	Credit         float64    `db:"credit" json:"credit" csv:"credit" validate:"gte=0,lte=12"`
	Day1           string     `db:"day1" json:"day1,omitempty" csv:"day1"`
	Day2           string     `db:"day2" json:"day2,omitempty" csv:"day2"`
	Time1          string     `db:"time1" json:"time1,omitempty" csv:"time1"`
	Time2          string     `db:"time2" json:"time2,omitempty" csv:"time2"`
	Room1          string     `db:"room1" json:"room1,omitempty" csv:"room1"`
	Room2          string     `db:"room2" json:"room2,omitempty" csv:"room2"`
	FacultyName    string     `db:"faculty_name" json:"facultyName,omitempty" csv:"faculty_name"`
	FacultyInitial string     `db:"faculty_initial" json:"facultyInitial,omitempty" csv:"faculty_initial"`
	Notes          string     `db:"notes" json:"notes,omitempty" csv:"notes"`
}

// Label renders "CSE1111 (A)" for messages.
func (s Section) Label() string {
	return fmt.Sprintf("%s (%s)", s.CourseCode, s.SectionLabel)
}

// Course groups the sections a student chooses one of.
type Course struct {
	Code     string    `json:"code" validate:"required,max=32"`
	Title    string    `json:"title,omitempty"`
	Credit   float64   `json:"credit,omitempty"`
	Sections []Section `json:"sections" validate:"dive"`
}

// CourseSummary is a distinct course entry of a semester catalog.
type CourseSummary struct {
	Code         string  `db:"course_code" json:"code"`
	Title        string  `db:"title" json:"title"`
	Credit       float64 `db:"credit" json:"credit"`
	SectionCount int     `db:"section_count" json:"sectionCount"`
}

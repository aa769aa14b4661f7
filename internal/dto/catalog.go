package dto

import "github.com/noah-isme/section-planner-api/internal/models"

// WeekdayInfo names a weekday in both forms accepted by import sheets.
type WeekdayInfo struct {
	Name  string `json:"name"`
	Short string `json:"short"`
}

// ReferenceDataResponse exposes the academic calendar constants.
type ReferenceDataResponse struct {
	Weekdays      []WeekdayInfo `json:"weekdays"`
	TimeSlots     []string      `json:"timeSlots"`
	LabTimeSlots  []string      `json:"labTimeSlots"`
	CourseTypes   []string      `json:"courseTypes"`
	Trimesters    []string      `json:"trimesters"`
	Programs      []string      `json:"programs"`
	CreditOptions []float64     `json:"creditOptions"`
	SectionNames  []string      `json:"sectionNames"`
}

// CreateSemesterRequest registers a new offering sheet.
type CreateSemesterRequest struct {
	Name    string `json:"name" validate:"required,oneof=Spring Summer Fall"`
	Year    int    `json:"year" validate:"required,gte=2000,lte=2100"`
	Program string `json:"program" validate:"required,oneof=BSCSE BSDS"`
}

// SemesterQuery filters semesters by program.
type SemesterQuery struct {
	Program string `form:"program"`
}

// CourseSectionsResponse lists the sections of one course.
type CourseSectionsResponse struct {
	Course   models.CourseSummary `json:"course"`
	Sections []models.Section     `json:"sections"`
}

// ImportWarning flags a row that was skipped or stored with a suspicious meeting.
type ImportWarning struct {
	Row        int    `json:"row"`
	CourseCode string `json:"courseCode,omitempty"`
	Section    string `json:"section,omitempty"`
	Field      string `json:"field,omitempty"`
	Message    string `json:"message"`
	Skipped    bool   `json:"skipped"`
}

// ImportOfferingsResult summarises an offering upload.
type ImportOfferingsResult struct {
	SemesterID string          `json:"semesterId"`
	Imported   int             `json:"imported"`
	Skipped    int             `json:"skipped"`
	Replaced   bool            `json:"replaced"`
	Warnings   []ImportWarning `json:"warnings"`
}

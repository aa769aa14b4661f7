package dto

import (
	"github.com/noah-isme/section-planner-api/internal/models"
	"github.com/noah-isme/section-planner-api/internal/scheduler"
)

// GenerateScheduleRequest asks for ranked conflict-free section combinations.
// Courses are either given inline or resolved from a semester catalog by code.
type GenerateScheduleRequest struct {
	SemesterID  string             `json:"semesterId" validate:"omitempty,max=64"`
	CourseCodes []string           `json:"courseCodes" validate:"omitempty,dive,required,max=32"`
	Courses     []models.Course    `json:"courses" validate:"omitempty,dive"`
	Preferences models.Preferences `json:"preferences"`
	NumOptions  int                `json:"numOptions" validate:"omitempty,min=1"`
}

// MeetingSlot is one weekly meeting placed on a day.
type MeetingSlot struct {
	CourseCode string `json:"courseCode"`
	Section    string `json:"section"`
	Time       string `json:"time"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Room       string `json:"room,omitempty"`
	Faculty    string `json:"faculty,omitempty"`
}

// DayMeetings groups the meetings of one weekday in start order.
type DayMeetings struct {
	Day      string        `json:"day"`
	Meetings []MeetingSlot `json:"meetings"`
}

// ScheduleOption is a ranked candidate returned to the client.
type ScheduleOption struct {
	Rank     int                  `json:"rank"`
	Score    int                  `json:"score"`
	Stats    models.ScheduleStats `json:"stats"`
	Sections []models.Section     `json:"sections"`
	Week     []DayMeetings        `json:"week"`
}

// GenerationSummary mirrors the headline numbers of the results page.
type GenerationSummary struct {
	TotalCourses      int   `json:"totalCourses"`
	OptionsGenerated  int   `json:"optionsGenerated"`
	CombinationsTotal int64 `json:"combinationsTotal"`
	Conflicts         int   `json:"conflicts"`
}

// GenerateScheduleResponse returns the ranked options under a proposal id.
type GenerateScheduleResponse struct {
	ProposalID  string             `json:"proposalId"`
	SemesterID  string             `json:"semesterId,omitempty"`
	Preferences models.Preferences `json:"preferences"`
	Options     []ScheduleOption   `json:"options"`
	Summary     GenerationSummary  `json:"summary"`
}

// SaveScheduleRequest persists one option of a proposal.
type SaveScheduleRequest struct {
	ProposalID string `json:"proposalId" validate:"required"`
	Option     int    `json:"option" validate:"required,min=1"`
	Title      string `json:"title" validate:"omitempty,max=120"`
	Favorite   bool   `json:"favorite"`
}

// SavedScheduleQuery filters the caller's saved schedules.
type SavedScheduleQuery struct {
	SemesterID   string `form:"semesterId"`
	FavoriteOnly bool   `form:"favorite"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// SavedScheduleDetail is a saved schedule with its weekly layout.
type SavedScheduleDetail struct {
	models.SavedSchedule
	Week []DayMeetings `json:"week"`
}

// FavoriteResponse reports the toggled state.
type FavoriteResponse struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"isFavorite"`
}

// ConflictCheckRequest evaluates a hand-picked list of sections.
type ConflictCheckRequest struct {
	Sections    []models.Section `json:"sections" validate:"required,min=1,dive"`
	PairingMode string           `json:"pairingMode" validate:"omitempty,oneof=positional cross"`
}

// ConflictCheckResponse lists every clashing pair.
type ConflictCheckResponse struct {
	HasConflict bool                 `json:"hasConflict"`
	Conflicts   []scheduler.Conflict `json:"conflicts"`
	Stats       models.ScheduleStats `json:"stats"`
	Week        []DayMeetings        `json:"week"`
}

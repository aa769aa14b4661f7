package models

import "time"

// SavedSchedule is a generated option a student kept, optionally starred as favorite.
type SavedSchedule struct {
	ID          string        `db:"id" json:"id"`
	UserID      string        `db:"user_id" json:"userId"`
	SemesterID  *string       `db:"semester_id" json:"semesterId,omitempty"`
	Title       string        `db:"title" json:"title"`
	Sections    SectionList   `db:"sections" json:"sections"`
	Stats       ScheduleStats `db:"stats" json:"stats"`
	Preferences Preferences   `db:"preferences" json:"preferences"`
	Score       int           `db:"score" json:"score"`
	IsFavorite  bool          `db:"is_favorite" json:"isFavorite"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`
}

// SavedScheduleFilter narrows listing queries.
type SavedScheduleFilter struct {
	UserID       string
	SemesterID   string
	FavoriteOnly bool
	Page         int
	PageSize     int
}

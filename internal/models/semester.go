package models

import "time"

// Trimester names used by the academic calendar.
const (
	TrimesterSpring = "Spring"
	TrimesterSummer = "Summer"
	TrimesterFall   = "Fall"
)

// Programs with published offering sheets.
const (
	ProgramBSCSE = "BSCSE"
	ProgramBSDS  = "BSDS"
)

// Semester is one published offering sheet for a program.
type Semester struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name" validate:"required,oneof=Spring Summer Fall"`
	Year       int       `db:"year" json:"year" validate:"required,gte=2000,lte=2100"`
	Program    string    `db:"program" json:"program" validate:"required,max=16"`
	UploadedBy string    `db:"uploaded_by" json:"uploadedBy"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploadedAt"`
}

// Trimesters lists trimester names in calendar order.
func Trimesters() []string {
	return []string{TrimesterSpring, TrimesterSummer, TrimesterFall}
}

// Programs lists the supported degree programs.
func Programs() []string {
	return []string{ProgramBSCSE, ProgramBSDS}
}

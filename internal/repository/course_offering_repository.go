package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/section-planner-api/internal/models"
)

const offeringColumns = `id, semester_id, program, course_code, title, section, course_type, credit,
       day1, day2, time1, time2, room1, room2, faculty_name, faculty_initial, notes`

// CourseOfferingRepository stores the sections of each semester.
type CourseOfferingRepository struct {
	db *sqlx.DB
}

// NewCourseOfferingRepository constructs the repository.
func NewCourseOfferingRepository(db *sqlx.DB) *CourseOfferingRepository {
	return &CourseOfferingRepository{db: db}
}

func (r *CourseOfferingRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListBySemester returns sections ordered by code and section label. Empty codes means all courses.
func (r *CourseOfferingRepository) ListBySemester(ctx context.Context, semesterID string, codes []string) ([]models.Section, error) {
	query := `SELECT ` + offeringColumns + ` FROM course_offerings WHERE semester_id = $1`
	args := []interface{}{semesterID}
	if len(codes) > 0 {
		query += ` AND course_code = ANY($2)`
		args = append(args, pq.Array(codes))
	}
	query += ` ORDER BY course_code ASC, section ASC`

	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, args...); err != nil {
		return nil, fmt.Errorf("list course offerings: %w", err)
	}
	return sections, nil
}

// ListCourseCodes returns one summary row per distinct course of a semester.
func (r *CourseOfferingRepository) ListCourseCodes(ctx context.Context, semesterID string) ([]models.CourseSummary, error) {
	const query = `SELECT course_code, MAX(title) AS title, MAX(credit) AS credit, COUNT(*) AS section_count
FROM course_offerings WHERE semester_id = $1
GROUP BY course_code ORDER BY course_code ASC`
	var courses []models.CourseSummary
	if err := r.db.SelectContext(ctx, &courses, query, semesterID); err != nil {
		return nil, fmt.Errorf("list course codes: %w", err)
	}
	return courses, nil
}

// BulkInsert writes sections one statement at a time on the given executor.
func (r *CourseOfferingRepository) BulkInsert(ctx context.Context, exec sqlx.ExtContext, sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}
	target := r.exec(exec)

	const query = `INSERT INTO course_offerings (` + offeringColumns + `)
VALUES (:id, :semester_id, :program, :course_code, :title, :section, :course_type, :credit,
        :day1, :day2, :time1, :time2, :room1, :room2, :faculty_name, :faculty_initial, :notes)`

	for i := range sections {
		section := &sections[i]
		if section.ID == "" {
			section.ID = uuid.NewString()
		}
		if section.CourseType == "" {
			section.CourseType = models.CourseTypeTheory
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, section); err != nil {
			return fmt.Errorf("insert course offering %s: %w", section.Label(), translateUnique(err))
		}
	}
	return nil
}

// DeleteBySemester clears a semester before a replacing import and reports the removed row count.
func (r *CourseOfferingRepository) DeleteBySemester(ctx context.Context, exec sqlx.ExtContext, semesterID string) (int64, error) {
	res, err := r.exec(exec).ExecContext(ctx, `DELETE FROM course_offerings WHERE semester_id = $1`, semesterID)
	if err != nil {
		return 0, fmt.Errorf("delete course offerings: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check course offering delete rows: %w", err)
	}
	return affected, nil
}

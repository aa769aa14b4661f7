package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/section-planner-api/internal/models"
)

// SemesterRepository persists offering sheet headers.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs the repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// List returns semesters newest first, optionally narrowed to one program.
func (r *SemesterRepository) List(ctx context.Context, program string) ([]models.Semester, error) {
	query := `SELECT id, name, year, program, uploaded_by, uploaded_at FROM semesters`
	args := make([]interface{}, 0, 1)
	if program != "" {
		query += ` WHERE program = $1`
		args = append(args, program)
	}
	query += ` ORDER BY year DESC, uploaded_at DESC`

	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, args...); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// FindByID returns a semester or sql.ErrNoRows.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	const query = `SELECT id, name, year, program, uploaded_by, uploaded_at FROM semesters WHERE id = $1`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, id); err != nil {
		return nil, err
	}
	return &semester, nil
}

// Create inserts a semester; a repeated name/year/program yields ErrDuplicate.
func (r *SemesterRepository) Create(ctx context.Context, semester *models.Semester) error {
	if semester.ID == "" {
		semester.ID = uuid.NewString()
	}
	if semester.UploadedAt.IsZero() {
		semester.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO semesters (id, name, year, program, uploaded_by, uploaded_at)
VALUES (:id, :name, :year, :program, :uploaded_by, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, semester); err != nil {
		return fmt.Errorf("create semester: %w", translateUnique(err))
	}
	return nil
}

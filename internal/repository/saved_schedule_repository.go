package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/section-planner-api/internal/models"
)

const savedScheduleColumns = `id, user_id, semester_id, title, sections, stats, preferences, score, is_favorite, created_at, updated_at`

// SavedScheduleRepository persists schedules students kept.
type SavedScheduleRepository struct {
	db *sqlx.DB
}

// NewSavedScheduleRepository constructs the repository.
func NewSavedScheduleRepository(db *sqlx.DB) *SavedScheduleRepository {
	return &SavedScheduleRepository{db: db}
}

// Create inserts a saved schedule with generated defaults.
func (r *SavedScheduleRepository) Create(ctx context.Context, schedule *models.SavedSchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = schedule.CreatedAt

	const query = `INSERT INTO saved_schedules (` + savedScheduleColumns + `)
VALUES (:id, :user_id, :semester_id, :title, :sections, :stats, :preferences, :score, :is_favorite, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create saved schedule: %w", err)
	}
	return nil
}

// ListByUser returns a page of the filter's schedules, favorites first, and the total count.
func (r *SavedScheduleRepository) ListByUser(ctx context.Context, filter models.SavedScheduleFilter) ([]models.SavedSchedule, int, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{filter.UserID}
	if filter.SemesterID != "" {
		args = append(args, filter.SemesterID)
		conditions = append(conditions, fmt.Sprintf("semester_id = $%d", len(args)))
	}
	if filter.FavoriteOnly {
		conditions = append(conditions, "is_favorite = TRUE")
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM saved_schedules"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count saved schedules: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	query := "SELECT " + savedScheduleColumns + " FROM saved_schedules" + where +
		fmt.Sprintf(" ORDER BY is_favorite DESC, created_at DESC LIMIT %d OFFSET %d", size, (page-1)*size)

	var schedules []models.SavedSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list saved schedules: %w", err)
	}
	return schedules, total, nil
}

// FindByID returns a saved schedule or sql.ErrNoRows.
func (r *SavedScheduleRepository) FindByID(ctx context.Context, id string) (*models.SavedSchedule, error) {
	const query = `SELECT ` + savedScheduleColumns + ` FROM saved_schedules WHERE id = $1`
	var schedule models.SavedSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// SetFavorite updates the favorite flag.
func (r *SavedScheduleRepository) SetFavorite(ctx context.Context, id string, favorite bool) error {
	const query = `UPDATE saved_schedules SET is_favorite = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, favorite, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set schedule favorite: %w", err)
	}
	return requireAffected(res, "set schedule favorite")
}

// Delete removes a saved schedule and, by cascade, its export jobs.
func (r *SavedScheduleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved schedule: %w", err)
	}
	return requireAffected(res, "delete saved schedule")
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

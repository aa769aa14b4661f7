package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/section-planner-api/internal/models"
)

var semesterCols = []string{"id", "name", "year", "program", "uploaded_by", "uploaded_at"}

func TestSemesterRepositoryListByProgram(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	rows := sqlmock.NewRows(semesterCols).
		AddRow("sem-2", "Spring", 2025, "BSCSE", "admin-1", time.Now()).
		AddRow("sem-1", "Fall", 2024, "BSCSE", "admin-1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, year, program, uploaded_by, uploaded_at FROM semesters WHERE program = $1 ORDER BY year DESC, uploaded_at DESC")).
		WithArgs("BSCSE").
		WillReturnRows(rows)

	semesters, err := repo.List(context.Background(), "BSCSE")
	require.NoError(t, err)
	require.Len(t, semesters, 2)
	assert.Equal(t, "sem-2", semesters[0].ID)
	assert.Equal(t, 2025, semesters[0].Year)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM semesters ORDER BY year DESC")).
		WillReturnRows(sqlmock.NewRows(semesterCols))

	semesters, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, semesters)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM semesters WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSemesterRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO semesters")).
		WithArgs(sqlmock.AnyArg(), "Summer", 2025, "BSDS", "admin-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	semester := &models.Semester{Name: "Summer", Year: 2025, Program: "BSDS", UploadedBy: "admin-1"}
	require.NoError(t, repo.Create(context.Background(), semester))
	assert.NotEmpty(t, semester.ID)
	assert.False(t, semester.UploadedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO semesters")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &models.Semester{Name: "Fall", Year: 2024, Program: "BSCSE"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/section-planner-api/internal/models"
)

var offeringCols = []string{"id", "semester_id", "program", "course_code", "title", "section", "course_type", "credit",
	"day1", "day2", "time1", "time2", "room1", "room2", "faculty_name", "faculty_initial", "notes"}

func TestCourseOfferingRepositoryListBySemesterWithCodes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseOfferingRepository(db)

	codes := []string{"CSE1111", "MAT2105"}
	rows := sqlmock.NewRows(offeringCols).
		AddRow("off-1", "sem-1", "BSCSE", "CSE1111", "Structured Programming", "A", "Theory", 3.0,
			"Sat", "Tue", "08:30 AM - 09:50 AM", "08:30 AM - 09:50 AM", "0601", "0601", "Dr. Rahman", "RHM", "").
		AddRow("off-2", "sem-1", "BSCSE", "MAT2105", "Linear Algebra", "B", "Theory", 3.0,
			"Sun", "Wed", "09:51 AM - 11:10 AM", "09:51 AM - 11:10 AM", "0602", "0602", "Dr. Karim", "KRM", "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM course_offerings WHERE semester_id = $1 AND course_code = ANY($2) ORDER BY course_code ASC, section ASC")).
		WithArgs("sem-1", pq.Array(codes)).
		WillReturnRows(rows)

	sections, err := repo.ListBySemester(context.Background(), "sem-1", codes)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "CSE1111", sections[0].CourseCode)
	assert.Equal(t, "A", sections[0].SectionLabel)
	assert.Equal(t, models.CourseTypeTheory, sections[0].CourseType)
	assert.Equal(t, 3.0, sections[1].Credit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseOfferingRepositoryListCourseCodes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseOfferingRepository(db)

	rows := sqlmock.NewRows([]string{"course_code", "title", "credit", "section_count"}).
		AddRow("CSE1111", "Structured Programming", 3.0, 4)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY course_code ORDER BY course_code ASC")).
		WithArgs("sem-1").
		WillReturnRows(rows)

	courses, err := repo.ListCourseCodes(context.Background(), "sem-1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 4, courses[0].SectionCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseOfferingRepositoryReplaceInTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseOfferingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_offerings WHERE semester_id = $1")).
		WithArgs("sem-1").
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course_offerings")).
		WithArgs(sqlmock.AnyArg(), "sem-1", "BSCSE", "CSE1111", "", "A", "Theory", 3.0,
			"Saturday", "Tuesday", "08:30 AM - 09:50 AM", "08:30 AM - 09:50 AM", "", "", "", "", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course_offerings")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	removed, err := repo.DeleteBySemester(context.Background(), tx, "sem-1")
	require.NoError(t, err)
	assert.EqualValues(t, 7, removed)

	sections := []models.Section{
		{SemesterID: "sem-1", Program: "BSCSE", CourseCode: "CSE1111", SectionLabel: "A", Credit: 3,
			Day1: "Saturday", Day2: "Tuesday", Time1: "08:30 AM - 09:50 AM", Time2: "08:30 AM - 09:50 AM"},
		{SemesterID: "sem-1", Program: "BSCSE", CourseCode: "CSE1112", SectionLabel: "A", CourseType: models.CourseTypeLab, Credit: 1},
	}
	require.NoError(t, repo.BulkInsert(context.Background(), tx, sections))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, sections[0].ID)
	assert.Equal(t, models.CourseTypeTheory, sections[0].CourseType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseOfferingRepositoryBulkInsertDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseOfferingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course_offerings")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.BulkInsert(context.Background(), nil, []models.Section{{SemesterID: "sem-1", CourseCode: "CSE1111", SectionLabel: "A"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Contains(t, err.Error(), "CSE1111 (A)")
}

func TestCourseOfferingRepositoryBulkInsertEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseOfferingRepository(db)

	require.NoError(t, repo.BulkInsert(context.Background(), nil, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

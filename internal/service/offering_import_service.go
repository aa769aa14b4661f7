package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/section-planner-api/internal/dto"
	"github.com/noah-isme/section-planner-api/internal/models"
	"github.com/noah-isme/section-planner-api/internal/repository"
	"github.com/noah-isme/section-planner-api/internal/scheduler"
	"github.com/noah-isme/section-planner-api/pkg/cache"
	appErrors "github.com/noah-isme/section-planner-api/pkg/errors"
)

type offeringWriter interface {
	BulkInsert(ctx context.Context, exec sqlx.ExtContext, sections []models.Section) error
	DeleteBySemester(ctx context.Context, exec sqlx.ExtContext, semesterID string) (int64, error)
}

type semesterReader interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// offeringRow mirrors one line of an offering sheet. Fields stay strings so a bad
// cell becomes a warning instead of failing the whole upload.
type offeringRow struct {
	Program        string `csv:"program"`
	CourseCode     string `csv:"course_code"`
	Title          string `csv:"title"`
	Section        string `csv:"section"`
	CourseType     string `csv:"course_type"`
	Credit         string `csv:"credit"`
	Day1           string `csv:"day1"`
	Day2           string `csv:"day2"`
	Time1          string `csv:"time1"`
	Time2          string `csv:"time2"`
	Room1          string `csv:"room1"`
	Room2          string `csv:"room2"`
	FacultyName    string `csv:"faculty_name"`
	FacultyInitial string `csv:"faculty_initial"`
	Notes          string `csv:"notes"`
}

// OfferingImportService loads course offering sheets into a semester.
type OfferingImportService struct {
	semesters semesterReader
	offerings offeringWriter
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewOfferingImportService constructs the importer.
func NewOfferingImportService(semesters semesterReader, offerings offeringWriter, tx txProvider, cacheSvc *CacheService, metrics *MetricsService, logger *zap.Logger) *OfferingImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferingImportService{semesters: semesters, offerings: offerings, tx: tx, cache: cacheSvc, metrics: metrics, logger: logger}
}

// Import stores the sheet's valid rows in one transaction. With replace set the
// semester's existing offerings are removed first.
func (s *OfferingImportService) Import(ctx context.Context, semesterID string, r io.Reader, replace bool) (*dto.ImportOfferingsResult, error) {
	semester, err := s.semesters.FindByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	sections, warnings, err := ParseOfferingSheet(r, semester.ID, semester.Program)
	if err != nil {
		return nil, err
	}
	skipped := 0
	for _, w := range warnings {
		if w.Skipped {
			skipped++
		}
	}
	if len(sections) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnprocessable, "offering sheet has no importable rows")
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start import transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if replace {
		removed, err := s.offerings.DeleteBySemester(ctx, tx, semester.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear existing offerings")
		}
		s.logger.Info("existing offerings cleared", zap.String("semester_id", semester.ID), zap.Int64("removed", removed))
	}
	if err := s.offerings.BulkInsert(ctx, tx, sections); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "sections already imported for this semester, retry with replace")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store offerings")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit offerings")
	}

	if err := s.cache.Invalidate(ctx, cache.Pattern("catalog", semester.ID), cache.Pattern("generate")); err != nil {
		s.logger.Warn("offering cache invalidation failed", zap.String("semester_id", semester.ID), zap.Error(err))
	}
	s.metrics.ObserveImport(len(sections))
	s.logger.Info("offerings imported",
		zap.String("semester_id", semester.ID),
		zap.Int("imported", len(sections)),
		zap.Int("skipped", skipped),
		zap.Int("warnings", len(warnings)),
		zap.Bool("replace", replace),
	)

	return &dto.ImportOfferingsResult{
		SemesterID: semester.ID,
		Imported:   len(sections),
		Skipped:    skipped,
		Replaced:   replace,
		Warnings:   warnings,
	}, nil
}

// ParseOfferingSheet decodes a CSV offering sheet. Rows are numbered as in a
// spreadsheet, the header being row 1. Rows without a course code or section,
// and repeated code/section pairs, are skipped; implausible meetings are kept
// with a warning.
func ParseOfferingSheet(r io.Reader, semesterID, program string) ([]models.Section, []dto.ImportWarning, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows []*offeringRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "offering sheet is empty")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to parse offering sheet")
	}

	sections := make([]models.Section, 0, len(rows))
	warnings := make([]dto.ImportWarning, 0)
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		rowNum := i + 2
		code := strings.ToUpper(strings.TrimSpace(row.CourseCode))
		label := strings.ToUpper(strings.TrimSpace(row.Section))
		if code == "" || label == "" {
			warnings = append(warnings, dto.ImportWarning{Row: rowNum, CourseCode: code, Section: label, Message: "course code and section are required", Skipped: true})
			continue
		}
		key := code + "|" + label
		if first, dup := seen[key]; dup {
			warnings = append(warnings, dto.ImportWarning{Row: rowNum, CourseCode: code, Section: label, Message: fmt.Sprintf("duplicate of row %d", first), Skipped: true})
			continue
		}
		seen[key] = rowNum

		warn := func(field, msg string) {
			warnings = append(warnings, dto.ImportWarning{Row: rowNum, CourseCode: code, Section: label, Field: field, Message: msg})
		}

		courseType, ok := models.ParseCourseType(row.CourseType)
		if !ok {
			warn("course_type", fmt.Sprintf("unknown course type %q, stored as Theory", strings.TrimSpace(row.CourseType)))
			courseType = models.CourseTypeTheory
		}

		var credit float64
		if raw := strings.TrimSpace(row.Credit); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 {
				warn("credit", fmt.Sprintf("invalid credit %q, stored as 0", raw))
			} else {
				credit = parsed
			}
		}

		rowProgram := strings.ToUpper(strings.TrimSpace(row.Program))
		if rowProgram == "" {
			rowProgram = program
		}

		section := models.Section{
			SemesterID:     semesterID,
			Program:        rowProgram,
			CourseCode:     code,
			Title:          strings.TrimSpace(row.Title),
			SectionLabel:   label,
			CourseType:     courseType,
			Credit:         credit,
			Day1:           scheduler.CanonicalDay(row.Day1),
			Day2:           scheduler.CanonicalDay(row.Day2),
			Time1:          strings.TrimSpace(row.Time1),
			Time2:          strings.TrimSpace(row.Time2),
			Room1:          strings.TrimSpace(row.Room1),
			Room2:          strings.TrimSpace(row.Room2),
			FacultyName:    strings.TrimSpace(row.FacultyName),
			FacultyInitial: strings.TrimSpace(row.FacultyInitial),
			Notes:          strings.TrimSpace(row.Notes),
		}

		meetings := []struct{ field, day, time string }{
			{"day1/time1", section.Day1, section.Time1},
			{"day2/time2", section.Day2, section.Time2},
		}
		for n, m := range meetings {
			if m.day == "" && m.time == "" {
				if n == 0 {
					warn(m.field, "section has no first meeting")
				}
				continue
			}
			if err := scheduler.ValidateMeeting(m.day, m.time); err != nil {
				warn(m.field, err.Error())
			}
		}

		sections = append(sections, section)
	}
	return sections, warnings, nil
}

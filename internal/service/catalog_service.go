package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/section-planner-api/internal/dto"
	"github.com/noah-isme/section-planner-api/internal/models"
	"github.com/noah-isme/section-planner-api/internal/repository"
	"github.com/noah-isme/section-planner-api/internal/scheduler"
	"github.com/noah-isme/section-planner-api/pkg/cache"
	appErrors "github.com/noah-isme/section-planner-api/pkg/errors"
)

type semesterStore interface {
	List(ctx context.Context, program string) ([]models.Semester, error)
	FindByID(ctx context.Context, id string) (*models.Semester, error)
	Create(ctx context.Context, semester *models.Semester) error
}

type offeringCatalog interface {
	ListBySemester(ctx context.Context, semesterID string, codes []string) ([]models.Section, error)
	ListCourseCodes(ctx context.Context, semesterID string) ([]models.CourseSummary, error)
}

// CatalogService serves reference data and the published course offerings.
type CatalogService struct {
	semesters semesterStore
	offerings offeringCatalog
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(semesters semesterStore, offerings offeringCatalog, cacheSvc *CacheService, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{semesters: semesters, offerings: offerings, cache: cacheSvc, validator: validate, logger: logger, now: time.Now}
}

// ReferenceData returns the calendar constants used by the planner UI and import sheets.
func (s *CatalogService) ReferenceData() dto.ReferenceDataResponse {
	days := scheduler.AllWeekdays()
	weekdays := make([]dto.WeekdayInfo, 0, len(days))
	for _, day := range days {
		weekdays = append(weekdays, dto.WeekdayInfo{Name: day.String(), Short: day.Short()})
	}
	return dto.ReferenceDataResponse{
		Weekdays:      weekdays,
		TimeSlots:     append([]string(nil), scheduler.TheoryTimeSlots...),
		LabTimeSlots:  append([]string(nil), scheduler.LabTimeSlots...),
		CourseTypes:   []string{string(models.CourseTypeTheory), string(models.CourseTypeLab)},
		Trimesters:    models.Trimesters(),
		Programs:      models.Programs(),
		CreditOptions: append([]float64(nil), scheduler.CreditOptions...),
		SectionNames:  append([]string(nil), scheduler.SectionNames...),
	}
}

// ListSemesters returns published semesters. The boolean indicates whether data originated from cache.
func (s *CatalogService) ListSemesters(ctx context.Context, query dto.SemesterQuery) ([]models.Semester, bool, error) {
	program := strings.ToUpper(strings.TrimSpace(query.Program))
	scope := program
	if scope == "" {
		scope = "all"
	}
	return Remember(ctx, s.cache, cache.Key("catalog", "semesters", scope), 0, func(ctx context.Context) ([]models.Semester, error) {
		semesters, err := s.semesters.List(ctx, program)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
		}
		if semesters == nil {
			semesters = []models.Semester{}
		}
		return semesters, nil
	})
}

// CreateSemester registers an offering sheet header.
func (s *CatalogService) CreateSemester(ctx context.Context, req dto.CreateSemesterRequest, actorID string) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid semester payload")
	}
	semester := &models.Semester{
		Name:       req.Name,
		Year:       req.Year,
		Program:    req.Program,
		UploadedBy: actorID,
		UploadedAt: s.now().UTC(),
	}
	if err := s.semesters.Create(ctx, semester); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s %d already exists for %s", req.Name, req.Year, req.Program))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester")
	}
	s.invalidate(ctx, cache.Pattern("catalog", "semesters"))
	s.logger.Info("semester created", zap.String("semester_id", semester.ID), zap.String("program", semester.Program))
	return semester, nil
}

// ListCourses returns the distinct courses of a semester. The boolean indicates whether data originated from cache.
func (s *CatalogService) ListCourses(ctx context.Context, semesterID string) ([]models.CourseSummary, bool, error) {
	return Remember(ctx, s.cache, cache.Key("catalog", semesterID, "courses"), 0, func(ctx context.Context) ([]models.CourseSummary, error) {
		if err := s.ensureSemester(ctx, semesterID); err != nil {
			return nil, err
		}
		courses, err := s.offerings.ListCourseCodes(ctx, semesterID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
		}
		if courses == nil {
			courses = []models.CourseSummary{}
		}
		return courses, nil
	})
}

// ListSections returns every section of a course in a semester.
func (s *CatalogService) ListSections(ctx context.Context, semesterID, code string) (*dto.CourseSectionsResponse, bool, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return Remember(ctx, s.cache, cache.Key("catalog", semesterID, "sections", code), 0, func(ctx context.Context) (*dto.CourseSectionsResponse, error) {
		if err := s.ensureSemester(ctx, semesterID); err != nil {
			return nil, err
		}
		sections, err := s.offerings.ListBySemester(ctx, semesterID, []string{code})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
		}
		if len(sections) == 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s not offered in this semester", code))
		}
		return &dto.CourseSectionsResponse{
			Course: models.CourseSummary{
				Code:         code,
				Title:        sections[0].Title,
				Credit:       sections[0].Credit,
				SectionCount: len(sections),
			},
			Sections: sections,
		}, nil
	})
}

func (s *CatalogService) ensureSemester(ctx context.Context, semesterID string) error {
	if _, err := s.semesters.FindByID(ctx, semesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, pattern string) {
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

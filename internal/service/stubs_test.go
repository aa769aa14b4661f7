package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/section-planner-api/internal/models"
	"github.com/noah-isme/section-planner-api/internal/repository"
	appErrors "github.com/noah-isme/section-planner-api/pkg/errors"
	"github.com/noah-isme/section-planner-api/pkg/jobs"
)

func twoDaySection(code, label, day1, day2, slot string) models.Section {
	return models.Section{CourseCode: code, SectionLabel: label, Title: code + " title", Credit: 3, Day1: day1, Day2: day2, Time1: slot, Time2: slot, Room1: "R-101", Room2: "R-102", FacultyName: "Dr. Rahman"}
}

// sampleCourses yields four combinations: CSE A clashes with MAT A, CSE A + MAT B is the only two-day week.
func sampleCourses() []models.Course {
	return []models.Course{
		{Code: "CSE1111", Sections: []models.Section{
			twoDaySection("CSE1111", "A", "Sat", "Tue", "08:30 AM - 09:50 AM"),
			twoDaySection("CSE1111", "B", "Sun", "Wed", "08:30 AM - 09:50 AM"),
		}},
		{Code: "MAT2105", Sections: []models.Section{
			twoDaySection("MAT2105", "A", "Sat", "Tue", "08:30 AM - 09:50 AM"),
			twoDaySection("MAT2105", "B", "Sat", "Tue", "09:51 AM - 11:10 AM"),
		}},
	}
}

type offeringStub struct {
	sections []models.Section
	courses  []models.CourseSummary
	err      error
	calls    int
}

func (o *offeringStub) ListBySemester(ctx context.Context, semesterID string, codes []string) ([]models.Section, error) {
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[code] = true
	}
	var out []models.Section
	for _, s := range o.sections {
		if s.SemesterID != semesterID {
			continue
		}
		if len(codes) > 0 && !wanted[s.CourseCode] {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (o *offeringStub) ListCourseCodes(ctx context.Context, semesterID string) ([]models.CourseSummary, error) {
	o.calls++
	return o.courses, o.err
}

type savedScheduleStub struct {
	items     map[string]*models.SavedSchedule
	createErr error
}

func newSavedScheduleStub() *savedScheduleStub {
	return &savedScheduleStub{items: map[string]*models.SavedSchedule{}}
}

func (s *savedScheduleStub) Create(ctx context.Context, schedule *models.SavedSchedule) error {
	if s.createErr != nil {
		return s.createErr
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	copied := *schedule
	s.items[schedule.ID] = &copied
	return nil
}

func (s *savedScheduleStub) ListByUser(ctx context.Context, filter models.SavedScheduleFilter) ([]models.SavedSchedule, int, error) {
	var out []models.SavedSchedule
	for _, item := range s.items {
		if item.UserID != filter.UserID {
			continue
		}
		if filter.FavoriteOnly && !item.IsFavorite {
			continue
		}
		out = append(out, *item)
	}
	return out, len(out), nil
}

func (s *savedScheduleStub) FindByID(ctx context.Context, id string) (*models.SavedSchedule, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *item
	return &copied, nil
}

func (s *savedScheduleStub) SetFavorite(ctx context.Context, id string, favorite bool) error {
	item, ok := s.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	item.IsFavorite = favorite
	return nil
}

func (s *savedScheduleStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

type semesterStub struct {
	items     map[string]*models.Semester
	createErr error
	listCalls int
}

func newSemesterStub(semesters ...models.Semester) *semesterStub {
	stub := &semesterStub{items: map[string]*models.Semester{}}
	for i := range semesters {
		stub.items[semesters[i].ID] = &semesters[i]
	}
	return stub
}

func (s *semesterStub) List(ctx context.Context, program string) ([]models.Semester, error) {
	s.listCalls++
	var out []models.Semester
	for _, item := range s.items {
		if program == "" || item.Program == program {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *semesterStub) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return item, nil
}

func (s *semesterStub) Create(ctx context.Context, semester *models.Semester) error {
	if s.createErr != nil {
		return s.createErr
	}
	if semester.ID == "" {
		semester.ID = uuid.NewString()
	}
	s.items[semester.ID] = semester
	return nil
}

// memoryCacheRepo is an in-process stand-in for the Redis cache repository.
type memoryCacheRepo struct {
	data    map[string][]byte
	deleted []string
	getErr  error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{data: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}

type exportJobRepoStub struct {
	jobs map[string]*models.ExportJob
}

func newExportJobRepoStub() *exportJobRepoStub {
	return &exportJobRepoStub{jobs: map[string]*models.ExportJob{}}
}

func (r *exportJobRepoStub) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *exportJobRepoStub) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return job, nil
}

func (r *exportJobRepoStub) Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error {
	job, ok := r.jobs[id]
	if !ok {
		return errors.New("not found")
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (r *exportJobRepoStub) ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error) {
	var queued []models.ExportJob
	for _, job := range r.jobs {
		if job.Status == models.ExportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (r *exportJobRepoStub) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	var out []models.ExportJob
	for _, job := range r.jobs {
		if job.Status == models.ExportStatusFinished && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, *job)
		}
	}
	return out, nil
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/section-planner-api/internal/models"
	"github.com/noah-isme/section-planner-api/internal/scheduler"
	"github.com/noah-isme/section-planner-api/pkg/export"
	"github.com/noah-isme/section-planner-api/pkg/storage"
)

type scheduleReader interface {
	FindByID(ctx context.Context, id string) (*models.SavedSchedule, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders saved schedules and persists the files.
type ExportService struct {
	schedules scheduleReader
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

var meetingHeaders = []string{"Course", "Title", "Section", "Type", "Credit", "Day", "Time", "Room", "Faculty"}

// NewExportService constructs an ExportService.
func NewExportService(schedules scheduleReader, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		schedules: schedules,
		storage:   files,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Generate renders the job's saved schedule and stores the file behind a signed URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	schedule, err := s.schedules.FindByID(ctx, job.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("load schedule %s: %w", job.ScheduleID, err)
	}
	dataset := ScheduleDataset(schedule.Sections)

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(export.Document{
			Title:     scheduleTitle(schedule),
			Subtitles: scheduleSubtitles(schedule),
			Data:      dataset,
			Widths:    []float64{1.2, 2.6, 0.8, 0.9, 0.7, 1.1, 1.9, 1, 1.8},
		})
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(schedule, job), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	s.logger.Debug("schedule export rendered", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("bytes", len(payload)))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (storage.DownloadToken, error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// ScheduleDataset flattens sections into one row per weekly meeting, in week order.
func ScheduleDataset(sections []models.Section) export.Dataset {
	bySection := make(map[string]models.Section, len(sections))
	for _, section := range sections {
		bySection[section.CourseCode+"|"+section.SectionLabel] = section
	}
	rows := make([]map[string]string, 0, len(sections)*2)
	for _, day := range BuildWeek(sections) {
		for _, meeting := range day.Meetings {
			section := bySection[meeting.CourseCode+"|"+meeting.Section]
			rows = append(rows, map[string]string{
				"Course":  meeting.CourseCode,
				"Title":   section.Title,
				"Section": meeting.Section,
				"Type":    string(section.CourseType),
				"Credit":  fmt.Sprintf("%.1f", section.Credit),
				"Day":     day.Day,
				"Time":    meeting.Time,
				"Room":    meeting.Room,
				"Faculty": meeting.Faculty,
			})
		}
	}
	return export.Dataset{Headers: meetingHeaders, Rows: rows}
}

func scheduleTitle(schedule *models.SavedSchedule) string {
	if schedule.Title != "" {
		return schedule.Title
	}
	return "Class Schedule"
}

func scheduleSubtitles(schedule *models.SavedSchedule) []string {
	stats := schedule.Stats
	return []string{
		fmt.Sprintf("%d courses, %.1f credits", stats.TotalCourses, stats.TotalCredits),
		fmt.Sprintf("Classes on %d days, %d free days, score %d", stats.DaysWithClasses, stats.FreeDays, schedule.Score),
		fmt.Sprintf("Days: %s", strings.Join(weekDayNames(schedule.Sections), ", ")),
	}
}

func weekDayNames(sections []models.Section) []string {
	week := BuildWeek(sections)
	names := make([]string, 0, len(week))
	for _, day := range week {
		if wd, ok := scheduler.ParseWeekday(day.Day); ok {
			names = append(names, wd.Short())
		}
	}
	return names
}

func (s *ExportService) buildFilename(schedule *models.SavedSchedule, job *models.ExportJob) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	title := sanitizeFilename(strings.ToLower(schedule.Title))
	suffix := job.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("schedule_%s_%s_%s.%s", title, timestamp, suffix, job.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

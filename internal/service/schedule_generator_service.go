package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/section-planner-api/internal/dto"
	"github.com/noah-isme/section-planner-api/internal/models"
	"github.com/noah-isme/section-planner-api/internal/scheduler"
	"github.com/noah-isme/section-planner-api/pkg/cache"
	appErrors "github.com/noah-isme/section-planner-api/pkg/errors"
)

type offeringReader interface {
	ListBySemester(ctx context.Context, semesterID string, codes []string) ([]models.Section, error)
}

type savedScheduleStore interface {
	Create(ctx context.Context, schedule *models.SavedSchedule) error
	ListByUser(ctx context.Context, filter models.SavedScheduleFilter) ([]models.SavedSchedule, int, error)
	FindByID(ctx context.Context, id string) (*models.SavedSchedule, error)
	SetFavorite(ctx context.Context, id string, favorite bool) error
	Delete(ctx context.Context, id string) error
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	DefaultOptions       int
	MaxOptions           int
	MaxCourses           int
	MaxSectionsPerCourse int
	ProposalTTL          time.Duration
	CacheTTL             time.Duration
	Engine               scheduler.Options
}

// ScheduleGeneratorService builds ranked schedule proposals and manages saved schedules.
type ScheduleGeneratorService struct {
	offerings offeringReader
	saved     savedScheduleStore
	engine    *scheduler.Engine
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	store     *proposalStore
	cfg       ScheduleGeneratorConfig
	now       func() time.Time
}

// NewScheduleGeneratorService wires generator dependencies.
func NewScheduleGeneratorService(
	offerings offeringReader,
	saved savedScheduleStore,
	cacheSvc *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultOptions <= 0 {
		cfg.DefaultOptions = 5
	}
	if cfg.MaxOptions <= 0 {
		cfg.MaxOptions = 20
	}
	if cfg.MaxOptions < cfg.DefaultOptions {
		cfg.MaxOptions = cfg.DefaultOptions
	}
	if cfg.MaxCourses <= 0 {
		cfg.MaxCourses = 12
	}
	if cfg.MaxSectionsPerCourse <= 0 {
		cfg.MaxSectionsPerCourse = 64
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	engine := scheduler.NewEngine(cfg.Engine)
	cfg.Engine = engine.Options()
	return &ScheduleGeneratorService{
		offerings: offerings,
		saved:     saved,
		engine:    engine,
		cache:     cacheSvc,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		store:     newProposalStore(cfg.ProposalTTL),
		cfg:       cfg,
		now:       time.Now,
	}
}

type cachedGeneration struct {
	Candidates        []models.ScheduleCandidate `json:"candidates"`
	CombinationsTotal int64                      `json:"combinationsTotal"`
}

// Generate resolves the requested courses and returns ranked conflict-free options.
// The boolean reports whether the ranking was served from cache.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, bool, error) {
	req = normalizeGenerateRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Invalid(err, "invalid schedule generation payload")
	}
	numOptions := req.NumOptions
	if numOptions == 0 {
		numOptions = s.cfg.DefaultOptions
	}
	if numOptions > s.cfg.MaxOptions {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("numOptions must not exceed %d", s.cfg.MaxOptions))
	}

	courses, err := s.resolveCourses(ctx, req)
	if err != nil {
		return nil, false, err
	}
	if err := s.checkBounds(courses); err != nil {
		return nil, false, err
	}

	start := s.now()
	key := generationCacheKey(courses, req.Preferences, numOptions, s.cfg.Engine.Pairing)
	var result cachedGeneration
	hit, cacheErr := s.cache.Get(ctx, key, &result)
	if cacheErr != nil {
		s.logger.Warn("generation cache lookup failed", zap.Error(cacheErr))
		hit = false
	}
	if !hit {
		candidates, genErr := s.engine.Generate(courses, req.Preferences, numOptions)
		if genErr != nil {
			return nil, false, mapEngineError(genErr)
		}
		total, _ := scheduler.CombinationCount(courses)
		result = cachedGeneration{Candidates: candidates, CombinationsTotal: total}
		if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("cache generation result", zap.Error(err))
		}
	}
	elapsed := s.now().Sub(start)
	s.metrics.ObserveGeneration(hit, len(result.Candidates), elapsed)

	proposal := scheduleProposal{
		ProposalID:  uuid.NewString(),
		SemesterID:  req.SemesterID,
		Preferences: req.Preferences,
		Candidates:  result.Candidates,
		RequestedAt: s.now().UTC(),
	}
	s.store.Save(proposal)

	options := make([]dto.ScheduleOption, 0, len(result.Candidates))
	for i, candidate := range result.Candidates {
		options = append(options, dto.ScheduleOption{
			Rank:     i + 1,
			Score:    candidate.Score,
			Stats:    candidate.Stats,
			Sections: candidate.Sections,
			Week:     BuildWeek(candidate.Sections),
		})
	}

	s.logger.Info("schedule options generated",
		zap.String("proposal_id", proposal.ProposalID),
		zap.Int("courses", len(courses)),
		zap.Int("options", len(options)),
		zap.Int64("combinations", result.CombinationsTotal),
		zap.Bool("cache_hit", hit),
		zap.Duration("elapsed", elapsed),
	)

	return &dto.GenerateScheduleResponse{
		ProposalID:  proposal.ProposalID,
		SemesterID:  req.SemesterID,
		Preferences: req.Preferences,
		Options:     options,
		Summary: dto.GenerationSummary{
			TotalCourses:      len(courses),
			OptionsGenerated:  len(options),
			CombinationsTotal: result.CombinationsTotal,
		},
	}, hit, nil
}

// Save persists one ranked option of a live proposal for the caller.
func (s *ScheduleGeneratorService) Save(ctx context.Context, userID string, req dto.SaveScheduleRequest) (*models.SavedSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid save schedule payload")
	}
	proposal, ok := s.store.Get(req.ProposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	if req.Option > len(proposal.Candidates) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("option %d out of range, proposal has %d options", req.Option, len(proposal.Candidates)))
	}
	candidate := proposal.Candidates[req.Option-1]

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = fmt.Sprintf("Schedule option %d", req.Option)
	}
	now := s.now().UTC()
	schedule := &models.SavedSchedule{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Sections:    models.SectionList(candidate.Sections),
		Stats:       candidate.Stats,
		Preferences: proposal.Preferences,
		Score:       candidate.Score,
		IsFavorite:  req.Favorite,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if proposal.SemesterID != "" {
		semesterID := proposal.SemesterID
		schedule.SemesterID = &semesterID
	}
	if err := s.saved.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	s.logger.Info("schedule saved", zap.String("schedule_id", schedule.ID), zap.String("user_id", userID), zap.Int("option", req.Option))
	return schedule, nil
}

// List returns the caller's saved schedules, favorites first.
func (s *ScheduleGeneratorService) List(ctx context.Context, userID string, query dto.SavedScheduleQuery) ([]models.SavedSchedule, *models.Pagination, error) {
	filter := models.SavedScheduleFilter{
		UserID:       userID,
		SemesterID:   strings.TrimSpace(query.SemesterID),
		FavoriteOnly: query.FavoriteOnly,
		Page:         query.Page,
		PageSize:     query.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	items, total, err := s.saved.ListByUser(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list saved schedules")
	}
	return items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a saved schedule with its weekly layout.
func (s *ScheduleGeneratorService) Get(ctx context.Context, id, actorID string, role models.UserRole) (*dto.SavedScheduleDetail, error) {
	schedule, err := s.owned(ctx, id, actorID, role)
	if err != nil {
		return nil, err
	}
	return &dto.SavedScheduleDetail{SavedSchedule: *schedule, Week: BuildWeek(schedule.Sections)}, nil
}

// ToggleFavorite flips the favorite flag of a saved schedule.
func (s *ScheduleGeneratorService) ToggleFavorite(ctx context.Context, id, actorID string, role models.UserRole) (*dto.FavoriteResponse, error) {
	schedule, err := s.owned(ctx, id, actorID, role)
	if err != nil {
		return nil, err
	}
	next := !schedule.IsFavorite
	if err := s.saved.SetFavorite(ctx, id, next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update favorite")
	}
	return &dto.FavoriteResponse{ID: id, IsFavorite: next}, nil
}

// Delete removes a saved schedule.
func (s *ScheduleGeneratorService) Delete(ctx context.Context, id, actorID string, role models.UserRole) error {
	if _, err := s.owned(ctx, id, actorID, role); err != nil {
		return err
	}
	if err := s.saved.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	s.logger.Info("schedule deleted", zap.String("schedule_id", id), zap.String("actor_id", actorID))
	return nil
}

// CheckConflicts reports every clashing pair of a hand-picked list of sections.
func (s *ScheduleGeneratorService) CheckConflicts(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid conflict check payload")
	}
	detector := s.engine.Detector()
	if req.PairingMode != "" {
		mode, err := scheduler.ParsePairingMode(req.PairingMode)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		detector = scheduler.Detector{Mode: mode}
	}
	conflicts := detector.FindConflicts(req.Sections)
	return &dto.ConflictCheckResponse{
		HasConflict: len(conflicts) > 0,
		Conflicts:   conflicts,
		Stats:       scheduler.ComputeStats(req.Sections),
		Week:        BuildWeek(req.Sections),
	}, nil
}

// PruneProposals drops expired proposals; called from a background ticker.
func (s *ScheduleGeneratorService) PruneProposals() int {
	return s.store.Prune()
}

func (s *ScheduleGeneratorService) owned(ctx context.Context, id, actorID string, role models.UserRole) (*models.SavedSchedule, error) {
	schedule, err := s.saved.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if role != models.RoleAdmin && schedule.UserID != actorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "schedule belongs to another user")
	}
	return schedule, nil
}

func (s *ScheduleGeneratorService) resolveCourses(ctx context.Context, req dto.GenerateScheduleRequest) ([]models.Course, error) {
	if len(req.Courses) > 0 {
		if len(req.CourseCodes) > 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "provide either courses or courseCodes, not both")
		}
		return req.Courses, nil
	}
	if len(req.CourseCodes) == 0 {
		return []models.Course{}, nil
	}
	if req.SemesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required with courseCodes")
	}
	if len(req.CourseCodes) > s.cfg.MaxCourses {
		return nil, tooManyCourses(s.cfg.MaxCourses)
	}
	sections, err := s.offerings.ListBySemester(ctx, req.SemesterID, req.CourseCodes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offerings")
	}
	return GroupSections(req.CourseCodes, sections)
}

func (s *ScheduleGeneratorService) checkBounds(courses []models.Course) error {
	if len(courses) > s.cfg.MaxCourses {
		return tooManyCourses(s.cfg.MaxCourses)
	}
	for _, course := range courses {
		if len(course.Sections) > s.cfg.MaxSectionsPerCourse {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %s has %d sections, limit is %d", course.Code, len(course.Sections), s.cfg.MaxSectionsPerCourse))
		}
	}
	return nil
}

func tooManyCourses(limit int) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d courses per request", limit))
}

// GroupSections collects sections into courses in the order of codes. Codes must already be upper case.
func GroupSections(codes []string, sections []models.Section) ([]models.Course, error) {
	byCode := make(map[string][]models.Section, len(codes))
	for _, section := range sections {
		code := strings.ToUpper(section.CourseCode)
		byCode[code] = append(byCode[code], section)
	}
	courses := make([]models.Course, 0, len(codes))
	for _, code := range codes {
		found := byCode[code]
		if len(found) == 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s has no sections in this semester", code))
		}
		courses = append(courses, models.Course{
			Code:     code,
			Title:    found[0].Title,
			Credit:   found[0].Credit,
			Sections: found,
		})
	}
	return courses, nil
}

func normalizeGenerateRequest(req dto.GenerateScheduleRequest) dto.GenerateScheduleRequest {
	req.SemesterID = strings.TrimSpace(req.SemesterID)
	seen := make(map[string]struct{}, len(req.CourseCodes))
	codes := make([]string, 0, len(req.CourseCodes))
	for _, raw := range req.CourseCodes {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	req.CourseCodes = codes

	courses := make([]models.Course, len(req.Courses))
	for i, course := range req.Courses {
		course.Code = strings.ToUpper(strings.TrimSpace(course.Code))
		sections := make([]models.Section, len(course.Sections))
		for j, section := range course.Sections {
			if strings.TrimSpace(section.CourseCode) == "" {
				section.CourseCode = course.Code
			}
			if section.Credit == 0 {
				section.Credit = course.Credit
			}
			sections[j] = section
		}
		course.Sections = sections
		courses[i] = course
	}
	req.Courses = courses
	return req
}

func mapEngineError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrEmptyCourse):
		return appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, err.Error())
	case errors.Is(err, scheduler.ErrTooManyCombinations), errors.Is(err, scheduler.ErrInvalidOptions):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule generation failed")
	}
}

func generationCacheKey(courses []models.Course, prefs models.Preferences, numOptions int, mode scheduler.PairingMode) string {
	payload := struct {
		Courses    []models.Course    `json:"c"`
		Prefs      models.Preferences `json:"p"`
		NumOptions int                `json:"n"`
		Mode       string             `json:"m"`
	}{courses, prefs, numOptions, mode.String()}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return cache.Key("generate", hex.EncodeToString(sum[:]))
}

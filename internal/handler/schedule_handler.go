package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/section-planner-api/internal/dto"
	"github.com/noah-isme/section-planner-api/internal/models"
	appErrors "github.com/noah-isme/section-planner-api/pkg/errors"
	"github.com/noah-isme/section-planner-api/pkg/response"
)

const (
	maxCoursesPerRequest = 12
	maxSectionsPerCourse = 64
)

type scheduleService interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, bool, error)
	CheckConflicts(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error)
	Save(ctx context.Context, userID string, req dto.SaveScheduleRequest) (*models.SavedSchedule, error)
	List(ctx context.Context, userID string, query dto.SavedScheduleQuery) ([]models.SavedSchedule, *models.Pagination, error)
	Get(ctx context.Context, id, actorID string, role models.UserRole) (*dto.SavedScheduleDetail, error)
	ToggleFavorite(ctx context.Context, id, actorID string, role models.UserRole) (*dto.FavoriteResponse, error)
	Delete(ctx context.Context, id, actorID string, role models.UserRole) error
}

// ScheduleHandler exposes schedule generation and saved schedule endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Generate godoc
// @Summary Generate ranked conflict-free schedules
// @Description Courses are sent inline or resolved by code from a semester catalog. Options are ranked by preference score.
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid generate payload"))
		return
	}
	if err := validateGenerateRequest(req); err != nil {
		response.Error(c, err)
		return
	}
	result, cacheHit, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := withCacheMeta(c, cacheHit)
	meta["combinations_total"] = result.Summary.CombinationsTotal
	response.JSON(c, http.StatusOK, result, nil, meta)
}

// CheckConflicts godoc
// @Summary Check a hand-picked set of sections for clashes
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ConflictCheckRequest true "Sections to check"
// @Success 200 {object} response.Envelope
// @Router /schedules/conflicts [post]
func (h *ScheduleHandler) CheckConflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid conflict payload"))
		return
	}
	result, err := h.service.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Save godoc
// @Summary Save one option of a generated proposal
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SaveScheduleRequest true "Save schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid save payload"))
		return
	}
	saved, err := h.service.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, saved)
}

// List godoc
// @Summary List the caller's saved schedules
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param semesterId query string false "Semester filter"
// @Param favorite query bool false "Only favourites"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.SavedScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), claims.UserID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a saved schedule with its weekly layout
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ToggleFavorite godoc
// @Summary Toggle the favourite flag of a saved schedule
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/favorite [patch]
func (h *ScheduleHandler) ToggleFavorite(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.service.ToggleFavorite(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a saved schedule
// @Tags Schedules
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func validateGenerateRequest(req dto.GenerateScheduleRequest) error {
	if len(req.Courses) > maxCoursesPerRequest || len(req.CourseCodes) > maxCoursesPerRequest {
		return appErrors.Clone(appErrors.ErrValidation, "too many courses in one request")
	}
	for _, course := range req.Courses {
		if len(course.Sections) > maxSectionsPerCourse {
			return appErrors.Clone(appErrors.ErrValidation, "course "+course.Code+" has too many sections")
		}
	}
	return nil
}

package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/section-planner-api/internal/dto"
	"github.com/noah-isme/section-planner-api/internal/models"
	appErrors "github.com/noah-isme/section-planner-api/pkg/errors"
	"github.com/noah-isme/section-planner-api/pkg/response"
)

type catalogService interface {
	ReferenceData() dto.ReferenceDataResponse
	ListSemesters(ctx context.Context, query dto.SemesterQuery) ([]models.Semester, bool, error)
	CreateSemester(ctx context.Context, req dto.CreateSemesterRequest, actorID string) (*models.Semester, error)
	ListCourses(ctx context.Context, semesterID string) ([]models.CourseSummary, bool, error)
	ListSections(ctx context.Context, semesterID, code string) (*dto.CourseSectionsResponse, bool, error)
}

type offeringImporter interface {
	Import(ctx context.Context, semesterID string, r io.Reader, replace bool) (*dto.ImportOfferingsResult, error)
}

// CatalogHandler serves semester offering data and admin uploads.
type CatalogHandler struct {
	catalog       catalogService
	importer      offeringImporter
	maxUploadSize int64
}

// NewCatalogHandler constructs the handler. maxUploadSize bounds offering sheet uploads in bytes.
func NewCatalogHandler(catalog catalogService, importer offeringImporter, maxUploadSize int64) *CatalogHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 5 << 20
	}
	return &CatalogHandler{catalog: catalog, importer: importer, maxUploadSize: maxUploadSize}
}

// Reference godoc
// @Summary Academic calendar constants
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/reference [get]
func (h *CatalogHandler) Reference(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.ReferenceData(), nil)
}

// Semesters godoc
// @Summary List semesters with uploaded offerings
// @Tags Catalog
// @Produce json
// @Param program query string false "Program filter"
// @Success 200 {object} response.Envelope
// @Router /catalog/semesters [get]
func (h *CatalogHandler) Semesters(c *gin.Context) {
	var query dto.SemesterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid query parameters"))
		return
	}
	semesters, cacheHit, err := h.catalog.ListSemesters(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semesters, nil, withCacheMeta(c, cacheHit))
}

// CreateSemester godoc
// @Summary Register a semester
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateSemesterRequest true "Semester payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /catalog/semesters [post]
func (h *CatalogHandler) CreateSemester(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid semester payload"))
		return
	}
	semester, err := h.catalog.CreateSemester(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, semester)
}

// Courses godoc
// @Summary List the courses offered in a semester
// @Tags Catalog
// @Produce json
// @Param id path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /catalog/semesters/{id}/courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	courses, cacheHit, err := h.catalog.ListCourses(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil, withCacheMeta(c, cacheHit))
}

// Sections godoc
// @Summary List the sections of one course
// @Tags Catalog
// @Produce json
// @Param id path string true "Semester ID"
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /catalog/semesters/{id}/courses/{code}/sections [get]
func (h *CatalogHandler) Sections(c *gin.Context) {
	result, cacheHit, err := h.catalog.ListSections(c.Request.Context(), c.Param("id"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil, withCacheMeta(c, cacheHit))
}

// ImportOfferings godoc
// @Summary Upload a CSV offering sheet for a semester
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester ID"
// @Param file formData file true "Offering sheet (CSV)"
// @Param replace formData bool false "Replace existing offerings"
// @Success 201 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /catalog/semesters/{id}/offerings/import [post]
func (h *CatalogHandler) ImportOfferings(c *gin.Context) {
	if h.importer == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "offering import not configured"))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+(1<<20))
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Clone(appErrors.ErrTooLarge, "offering sheet exceeds upload limit"))
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		response.Error(c, appErrors.Clone(appErrors.ErrTooLarge, "offering sheet exceeds upload limit"))
		return
	}
	replace := false
	if raw := c.PostForm("replace"); raw != "" {
		replace, err = strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "replace must be a boolean"))
			return
		}
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	result, err := h.importer.Import(c.Request.Context(), c.Param("id"), src, replace)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

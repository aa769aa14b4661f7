package dto

import (
	"time"

	"github.com/noah-isme/section-planner-api/internal/models"
)

// ExportRequest captures POST /schedules/:id/exports payload.
type ExportRequest struct {
	Format models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID         string              `json:"id"`
	ScheduleID string              `json:"scheduleId"`
	Format     models.ExportFormat `json:"format"`
	Status     models.ExportStatus `json:"status"`
	Progress   int                 `json:"progress"`
	ResultURL  *string             `json:"resultUrl,omitempty"`
	ExpiresAt  *time.Time          `json:"expiresAt,omitempty"`
	Error      *string             `json:"error,omitempty"`
}

// ExportResult describes a rendered file.
type ExportResult struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
}

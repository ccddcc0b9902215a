package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/httpresp"
	"github.com/workhive/workhive-api/internal/middleware"
	"github.com/workhive/workhive-api/internal/models"
)

type ReportHandler struct {
	db *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db}
}

type CreateReportRequest struct {
	TargetUserID    *uint  `json:"target_user_id"`
	TargetServiceID *uint  `json:"target_service_id"`
	Reason          string `json:"reason" binding:"required,max=500"`
}

func (h *ReportHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid report data.")
		return
	}

	if req.TargetUserID == nil && req.TargetServiceID == nil {
		httperr.BadRequest(c, "missing_target", "A report needs a target user or service.")
		return
	}

	report := models.Report{
		ReporterID:      userID,
		TargetUserID:    req.TargetUserID,
		TargetServiceID: req.TargetServiceID,
		Reason:          strings.TrimSpace(req.Reason),
		Status:          "open",
	}

	if err := h.db.Create(&report).Error; err != nil {
		httperr.Internal(c, "failed_to_create_report", "Could not create report.")
		return
	}

	c.JSON(http.StatusCreated, report)
}

// ======================================================
// ADMIN
// ======================================================

func (h *ReportHandler) ListForAdmin(c *gin.Context) {
	status := c.DefaultQuery("status", "open")

	q := h.db.Model(&models.Report{})
	if status != "all" {
		q = q.Where("status = ?", status)
	}

	var reports []models.Report
	if err := q.Order("created_at DESC").Find(&reports).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reports", "Could not list reports.")
		return
	}

	httpresp.List(c, reports)
}

func (h *ReportHandler) Resolve(c *gin.Context) {
	id := c.Param("id")

	res := h.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", id, "open").
		Update("status", "resolved")
	if res.Error != nil {
		httperr.Internal(c, "failed_to_resolve_report", "Could not resolve report.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "report_not_found", "Report not found or already resolved.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}

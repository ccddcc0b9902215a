package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/middleware"
	"github.com/workhive/workhive-api/internal/models"
)

type RatingHandler struct {
	db *gorm.DB
}

func NewRatingHandler(db *gorm.DB) *RatingHandler {
	return &RatingHandler{db: db}
}

type RateServiceRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
	Score     int  `json:"score" binding:"required,min=1,max=5"`
}

// Rate upserts the caller's rating for a service: rating again replaces
// the previous score.
func (h *RatingHandler) Rate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req RateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_rating", "Score must be between 1 and 5.")
		return
	}

	var count int64
	h.db.Model(&models.Service{}).Where("id = ?", req.ServiceID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	rating := models.Rating{
		UserID:    userID,
		ServiceID: req.ServiceID,
		Score:     req.Score,
	}

	if err := h.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "service_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
		}).
		Create(&rating).Error; err != nil {
		httperr.Internal(c, "failed_to_save_rating", "Could not save rating.")
		return
	}

	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) ForService(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	var avg struct {
		Average float64
		Count   int64
	}
	h.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("service_id = ?", serviceID).
		Scan(&avg)

	c.JSON(http.StatusOK, gin.H{
		"service_id":     serviceID,
		"average_rating": avg.Average,
		"rating_count":   avg.Count,
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/httpresp"
	"github.com/workhive/workhive-api/internal/middleware"
	"github.com/workhive/workhive-api/internal/models"
)

type FavoriteHandler struct {
	db *gorm.DB
}

func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{db: db}
}

type AddFavoriteRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid favorite data.")
		return
	}

	var count int64
	h.db.Model(&models.Service{}).Where("id = ?", req.ServiceID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	fav := models.Favorite{
		UserID:    userID,
		ServiceID: req.ServiceID,
	}

	// adding twice is a no-op, not an error
	if err := h.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error; err != nil {
		httperr.Internal(c, "failed_to_add_favorite", "Could not save favorite.")
		return
	}

	c.JSON(http.StatusCreated, fav)
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	serviceID, err := strconv.ParseUint(c.Param("serviceID"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	res := h.db.
		Where("user_id = ? AND service_id = ?", userID, serviceID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_remove_favorite", "Could not remove favorite.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "favorite_not_found", "Favorite not found.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var favorites []models.Favorite
	if err := h.db.
		Preload("Service").
		Preload("Service.Provider").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		httperr.Internal(c, "failed_to_list_favorites", "Could not list favorites.")
		return
	}

	httpresp.List(c, favorites)
}

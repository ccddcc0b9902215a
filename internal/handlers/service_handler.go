package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/workhive/workhive-api/internal/geo"
	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/httpresp"
	"github.com/workhive/workhive-api/internal/middleware"
	"github.com/workhive/workhive-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateServiceRequest struct {
	Title       string  `json:"title" binding:"required,max=120"`
	Description string  `json:"description" binding:"max=1000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type UpdateServiceRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// ======================================================
// PROVIDER CRUD
// ======================================================

func (h *ServiceHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "User not found.")
		return
	}
	if !user.IsProvider {
		httperr.Forbidden(c, "not_a_provider", "Only providers can publish services.")
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid service data.")
		return
	}

	svc := models.Service{
		ProviderID:  userID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create service.")
		return
	}

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var svc models.Service
	if err := h.db.Where("id = ? AND provider_id = ?", id, userID).First(&svc).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid service data.")
		return
	}

	if req.Title != nil {
		svc.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		svc.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			httperr.BadRequest(c, "invalid_price", "Price must be positive.")
			return
		}
		svc.Price = *req.Price
	}
	if req.Category != nil {
		svc.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Latitude != nil {
		svc.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		svc.Longitude = *req.Longitude
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update service.")
		return
	}

	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	res := h.db.Where("id = ? AND provider_id = ?", id, userID).Delete(&models.Service{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_service", "Could not delete service.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ServiceHandler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var services []models.Service
	if err := h.db.
		Where("provider_id = ?", userID).
		Order("created_at DESC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

// ======================================================
// PUBLIC SEARCH
// ======================================================

// Search filters by category, free text and max price in SQL; the
// radius filter runs in Go on the narrowed set since the store has no
// geo index.
func (h *ServiceHandler) Search(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Preload("Provider").Model(&models.Service{})

	if category != "" && category != "all" {
		q = q.Where("category = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if maxPriceStr := c.Query("max_price"); maxPriceStr != "" {
		maxPrice, err := strconv.ParseFloat(maxPriceStr, 64)
		if err != nil || maxPrice < 0 {
			httperr.BadRequest(c, "invalid_max_price", "Invalid max price.")
			return
		}
		q = q.Where("price <= ?", maxPrice)
	}

	var services []models.Service
	if err := q.Order("created_at DESC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_search_services", "Could not search services.")
		return
	}

	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	radiusStr := c.Query("radius_km")

	if latStr != "" && lngStr != "" && radiusStr != "" {
		lat, err1 := strconv.ParseFloat(latStr, 64)
		lng, err2 := strconv.ParseFloat(lngStr, 64)
		radius, err3 := strconv.ParseFloat(radiusStr, 64)
		if err1 != nil || err2 != nil || err3 != nil || radius <= 0 {
			httperr.BadRequest(c, "invalid_location_filter", "Invalid location filter.")
			return
		}

		filtered := services[:0]
		for _, svc := range services {
			if geo.WithinRadius(lat, lng, svc.Latitude, svc.Longitude, radius) {
				filtered = append(filtered, svc)
			}
		}
		services = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  services,
		"total": len(services),
	})
}

// ======================================================
// DETAILS
// ======================================================

func (h *ServiceHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var svc models.Service
	if err := h.db.Preload("Provider").First(&svc, "id = ?", id).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	var avg struct {
		Average float64
		Count   int64
	}
	h.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("service_id = ?", svc.ID).
		Scan(&avg)

	c.JSON(http.StatusOK, gin.H{
		"service":        svc,
		"average_rating": avg.Average,
		"rating_count":   avg.Count,
	})
}

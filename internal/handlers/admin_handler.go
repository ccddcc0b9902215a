package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/workhive/workhive-api/internal/httperr"
	"github.com/workhive/workhive-api/internal/httpresp"
	"github.com/workhive/workhive-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) ListUsers(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.User{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Could not list users.")
		return
	}

	httpresp.List(c, users)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	var serviceCount, bookingCount int64
	h.db.Model(&models.Service{}).Where("provider_id = ?", user.ID).Count(&serviceCount)
	h.db.Model(&models.Booking{}).Where("customer_id = ?", user.ID).Count(&bookingCount)

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"service_count": serviceCount,
		"booking_count": bookingCount,
	})
}

type UpdateUserRequest struct {
	Role       *string `json:"role"`
	IsProvider *bool   `json:"is_provider"`
	Banned     *bool   `json:"banned"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid user data.")
		return
	}

	updates := map[string]any{}
	if req.Role != nil {
		if *req.Role != "user" && *req.Role != "admin" {
			httperr.BadRequest(c, "invalid_role", "Role must be user or admin.")
			return
		}
		updates["role"] = *req.Role
	}
	if req.IsProvider != nil {
		updates["is_provider"] = *req.IsProvider
	}
	if req.Banned != nil {
		updates["banned"] = *req.Banned
	}

	if len(updates) == 0 {
		httperr.BadRequest(c, "nothing_to_update", "No fields to update.")
		return
	}

	res := h.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not update user.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	var user models.User
	h.db.First(&user, "id = ?", id)
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	res := h.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_user", "Could not delete user.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	c.Status(http.StatusNoContent)
}

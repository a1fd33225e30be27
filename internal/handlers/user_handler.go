package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/middleware"
	"github.com/skillhubapp/skillhub-api/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var user models.User
	if err := h.db.First(&user, actor.ID).Error; err != nil {
		httperr.NotFound(c, httperr.CodeUserNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(&user)})
}

type UpdateMeRequest struct {
	Name   *string `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Invalid request body")
		return
	}

	var user models.User
	if err := h.db.First(&user, actor.ID).Error; err != nil {
		httperr.NotFound(c, httperr.CodeUserNotFound, "User not found")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Bio != nil {
		if len(*req.Bio) > 500 {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Bio too long")
			return
		}
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "internal_error", "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(&user)})
}

// GetByID is the public profile view: no email, no credential material.
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, httperr.CodeUserNotFound, "User not found")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		httperr.NotFound(c, httperr.CodeUserNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     user.ID,
		"name":   user.Name,
		"role":   user.Role,
		"avatar": user.Avatar,
		"bio":    user.Bio,
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skillhubapp/skillhub-api/internal/authz"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/httpresp"
	"github.com/skillhubapp/skillhub-api/internal/middleware"
	"github.com/skillhubapp/skillhub-api/internal/models"
	"github.com/skillhubapp/skillhub-api/internal/ratings"
)

type SkillHandler struct {
	db    *gorm.DB
	cache *ratings.Cache
}

func NewSkillHandler(db *gorm.DB, cache *ratings.Cache) *SkillHandler {
	return &SkillHandler{db: db, cache: cache}
}

type CreateSkillRequest struct {
	Title        string  `json:"title" binding:"required,max=100"`
	Description  string  `json:"description" binding:"max=1000"`
	Category     string  `json:"category" binding:"required"`
	PricePerHour float64 `json:"price_per_hour" binding:"min=0"`
}

func (h *SkillHandler) Create(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	if actor.Role != authz.RoleInstructor && !authz.IsAdmin(actor) {
		httperr.Forbidden(c, httperr.CodeNotAuthorized, "Only instructors can publish skills")
		return
	}

	var req CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	skill := models.Skill{
		InstructorID: actor.ID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		PricePerHour: req.PricePerHour,
	}

	if err := h.db.Create(&skill).Error; err != nil {
		httperr.Internal(c, "internal_error", "Failed to create skill")
		return
	}

	httpresp.Created(c, skill)
}

func (h *SkillHandler) List(c *gin.Context) {
	q := h.db.Preload("Instructor").Model(&models.Skill{})

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var skills []models.Skill
	if err := q.Order("created_at DESC").Find(&skills).Error; err != nil {
		httperr.Internal(c, "internal_error", "Failed to list skills")
		return
	}

	httpresp.List(c, skills)
}

func (h *SkillHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, httperr.CodeSkillNotFound, "Skill not found")
		return
	}

	var skill models.Skill
	if err := h.db.Preload("Instructor").First(&skill, uint(id)).Error; err != nil {
		httperr.NotFound(c, httperr.CodeSkillNotFound, "Skill not found")
		return
	}

	// Hot path for listings: the cached aggregate, when present, is at
	// least as fresh as the row (the aggregator writes both).
	if agg, ok := h.cache.Get(c.Request.Context(), skill.ID); ok {
		skill.AverageRating = agg.AverageRating
		skill.ReviewCount = agg.ReviewCount
	}

	httpresp.OK(c, skill)
}

func (h *SkillHandler) ListMine(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var skills []models.Skill
	if err := h.db.
		Where("instructor_id = ?", actor.ID).
		Order("created_at DESC").
		Find(&skills).Error; err != nil {
		httperr.Internal(c, "internal_error", "Failed to list skills")
		return
	}

	httpresp.List(c, skills)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/httpresp"
	"github.com/skillhubapp/skillhub-api/internal/middleware"
	ucReview "github.com/skillhubapp/skillhub-api/internal/usecase/review"
)

type ReviewHandler struct {
	createUC *ucReview.CreateReview
	deleteUC *ucReview.DeleteReview
	listUC   *ucReview.ListReviews
}

func NewReviewHandler(
	createUC *ucReview.CreateReview,
	deleteUC *ucReview.DeleteReview,
	listUC *ucReview.ListReviews,
) *ReviewHandler {
	return &ReviewHandler{
		createUC: createUC,
		deleteUC: deleteUC,
		listUC:   listUC,
	}
}

type CreateReviewRequest struct {
	SkillID uint   `json:"skill_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,max=1000"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	rv, err := h.createUC.Execute(c.Request.Context(), ucReview.CreateReviewInput{
		UserID:  actor.ID,
		SkillID: req.SkillID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httperr.Translate(c, err)
		return
	}

	httpresp.Created(c, rv)
}

// ListBySkill is public: anyone browsing a skill can read its reviews,
// newest first.
func (h *ReviewHandler) ListBySkill(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, httperr.CodeSkillNotFound, "Skill not found")
		return
	}

	reviews, err := h.listUC.BySkill(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Translate(c, err)
		return
	}

	httpresp.List(c, reviews)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, httperr.CodeReviewNotFound, "Review not found")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), uint(id), actor); err != nil {
		httperr.Translate(c, err)
		return
	}

	httpresp.OK(c, gin.H{"review_id": uint(id)})
}

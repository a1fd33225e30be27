package handlers

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/skillhubapp/skillhub-api/internal/authz"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/httpresp"
	"github.com/skillhubapp/skillhub-api/internal/middleware"
	ucBooking "github.com/skillhubapp/skillhub-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC *ucBooking.CreateBooking
	updateUC *ucBooking.UpdateStatus
	cancelUC *ucBooking.CancelBooking
	listUC   *ucBooking.ListBookings
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	updateUC *ucBooking.UpdateStatus,
	cancelUC *ucBooking.CancelBooking,
	listUC *ucBooking.ListBookings,
) *BookingHandler {
	return &BookingHandler{
		createUC: createUC,
		updateUC: updateUC,
		cancelUC: cancelUC,
		listUC:   listUC,
	}
}

// ======================================================
// CREATE
// ======================================================

type CreateBookingRequest struct {
	SkillID       uint   `json:"skill_id" binding:"required"`
	Start         string `json:"start" binding:"required"`
	DurationHours int    `json:"duration_hours" binding:"required,min=1"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		StudentID:     actor.ID,
		SkillID:       req.SkillID,
		Start:         req.Start,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		httperr.Translate(c, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// STATUS / CANCEL
// ======================================================

type UpdateBookingRequest struct {
	Status      string `json:"status"`
	MeetingLink string `json:"meeting_link"`
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, httperr.CodeBookingNotFound, "Booking not found")
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	if req.Status == "" && req.MeetingLink == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Nothing to update")
		return
	}

	b, err := h.updateUC.Execute(c.Request.Context(), ucBooking.UpdateStatusInput{
		BookingID:    uint(id),
		Actor:        actor,
		TargetStatus: req.Status,
		MeetingLink:  req.MeetingLink,
	})
	if err != nil {
		httperr.Translate(c, err)
		return
	}

	httpresp.OK(c, b)
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, httperr.CodeBookingNotFound, "Booking not found")
		return
	}

	// Bind errors are tolerated so a bare DELETE works, but a reason that
	// slipped in over the column bound must still be rejected here.
	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	if utf8.RuneCountInString(req.Reason) > 500 {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Cancellation reason too long")
		return
	}

	b, err := h.cancelUC.Execute(c.Request.Context(), uint(id), actor, req.Reason)
	if err != nil {
		httperr.Translate(c, err)
		return
	}

	httpresp.OK(c, gin.H{"booking_id": b.ID})
}

// ======================================================
// LISTINGS
// ======================================================

func (h *BookingHandler) ListByUser(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, httperr.CodeUserNotFound, "User not found")
		return
	}

	if !authz.IsOwnerOrAdmin(actor, uint(id)) {
		httperr.Forbidden(c, httperr.CodeNotAuthorized, "You may only list your own bookings")
		return
	}

	bookings, err := h.listUC.ByStudent(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Translate(c, err)
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) ListByInstructor(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, httperr.CodeUserNotFound, "User not found")
		return
	}

	if !authz.IsOwnerOrAdmin(actor, uint(id)) {
		httperr.Forbidden(c, httperr.CodeNotAuthorized, "You may only list your own bookings")
		return
	}

	bookings, err := h.listUC.ByInstructor(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Translate(c, err)
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) ListAll(c *gin.Context) {
	bookings, err := h.listUC.All(c.Request.Context())
	if err != nil {
		httperr.Translate(c, err)
		return
	}

	httpresp.List(c, bookings)
}

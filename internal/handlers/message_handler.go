package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skillhubapp/skillhub-api/internal/authz"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/httpresp"
	"github.com/skillhubapp/skillhub-api/internal/middleware"
	"github.com/skillhubapp/skillhub-api/internal/models"
	"github.com/skillhubapp/skillhub-api/internal/storage"
)

const maxAttachmentBytes = 20 << 20 // 20 MiB

type MessageHandler struct {
	db          *gorm.DB
	attachments *storage.AttachmentStore
}

func NewMessageHandler(db *gorm.DB, attachments *storage.AttachmentStore) *MessageHandler {
	return &MessageHandler{db: db, attachments: attachments}
}

// loadBookingForParticipant fetches the booking and enforces the chat
// access rule: only participants (or admins) may touch its messages.
func (h *MessageHandler) loadBookingForParticipant(c *gin.Context) (*models.Booking, authz.Identity, bool) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return nil, authz.Identity{}, false
	}

	id, err := strconv.ParseUint(c.Param("bookingId"), 10, 64)
	if err != nil {
		httperr.NotFound(c, httperr.CodeBookingNotFound, "Booking not found")
		return nil, actor, false
	}

	var b models.Booking
	if err := h.db.First(&b, uint(id)).Error; err != nil {
		httperr.NotFound(c, httperr.CodeBookingNotFound, "Booking not found")
		return nil, actor, false
	}

	if !authz.IsParticipantOrAdmin(actor, &b) {
		httperr.Forbidden(c, httperr.CodeNotAuthorized, "You are not authorized to access this chat")
		return nil, actor, false
	}

	return &b, actor, true
}

// History returns the booking's messages in persistence order: the full
// record behind the at-most-once live push.
func (h *MessageHandler) History(c *gin.Context) {
	b, _, ok := h.loadBookingForParticipant(c)
	if !ok {
		return
	}

	var messages []models.Message
	if err := h.db.
		Preload("Sender").
		Where("booking_id = ?", b.ID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		httperr.Internal(c, "internal_error", "Failed to load messages")
		return
	}

	httpresp.List(c, messages)
}

type CreateMessageRequest struct {
	BookingID      uint   `json:"booking_id" binding:"required"`
	Message        string `json:"message"`
	Attachment     string `json:"attachment"`
	AttachmentType string `json:"attachment_type"`
}

// Create persists a message over REST, for clients without a live
// connection. Body is required unless an attachment is present.
func (h *MessageHandler) Create(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	body := strings.TrimSpace(req.Message)
	if body == "" && req.Attachment == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Message cannot be empty when no attachment is provided")
		return
	}
	if utf8.RuneCountInString(body) > 2000 {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Message too long")
		return
	}

	var b models.Booking
	if err := h.db.First(&b, req.BookingID).Error; err != nil {
		httperr.NotFound(c, httperr.CodeBookingNotFound, "Booking not found")
		return
	}

	if !authz.IsParticipant(actor, &b) {
		httperr.Forbidden(c, httperr.CodeNotAuthorized, "You are not authorized to send messages for this booking")
		return
	}

	m := models.Message{
		BookingID:      b.ID,
		SenderID:       actor.ID,
		Body:           body,
		Attachment:     req.Attachment,
		AttachmentType: req.AttachmentType,
		MessageType:    models.MessageTypeUser,
	}

	if err := h.db.Create(&m).Error; err != nil {
		httperr.Internal(c, "internal_error", "Failed to send message")
		return
	}

	httpresp.Created(c, m)
}

// MarkRead flags the counterparty's messages in this booking as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	b, actor, ok := h.loadBookingForParticipant(c)
	if !ok {
		return
	}

	now := time.Now()
	res := h.db.Model(&models.Message{}).
		Where("booking_id = ? AND sender_id <> ? AND is_read = false", b.ID, actor.ID).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		})
	if res.Error != nil {
		httperr.Internal(c, "internal_error", "Failed to mark messages read")
		return
	}

	httpresp.OK(c, gin.H{"updated": res.RowsAffected})
}

// UploadAttachment stores a file and returns the URL to embed in a
// message. Participant enforcement happens at message send.
func (h *MessageHandler) UploadAttachment(c *gin.Context) {
	if _, ok := middleware.Actor(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Missing file")
		return
	}
	defer file.Close()

	if header.Size > maxAttachmentBytes {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "File too large")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes))
	if err != nil {
		httperr.Internal(c, "internal_error", "Failed to read file")
		return
	}

	uploaded, err := h.attachments.Upload(
		c.Request.Context(),
		header.Filename,
		header.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		httperr.Translate(c, err)
		return
	}

	httpresp.Created(c, uploaded)
}

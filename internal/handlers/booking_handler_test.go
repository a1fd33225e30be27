package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillhubapp/skillhub-api/internal/authz"
	domain "github.com/skillhubapp/skillhub-api/internal/domain/booking"
	"github.com/skillhubapp/skillhub-api/internal/middleware"
	"github.com/skillhubapp/skillhub-api/internal/models"
	ucBooking "github.com/skillhubapp/skillhub-api/internal/usecase/booking"
)

// --- mocks ---

type cancelRepo struct {
	booking *models.Booking
	updated bool
}

func (r *cancelRepo) GetSkillByID(ctx context.Context, id uint) (*models.Skill, error) {
	return nil, nil
}

func (r *cancelRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return nil
}

func (r *cancelRepo) AssertNoTimeConflict(ctx context.Context, instructorID uint, start, end time.Time, excludeID uint) error {
	return nil
}

func (r *cancelRepo) GetBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	return r.booking, nil
}

func (r *cancelRepo) UpdateBooking(ctx context.Context, b *models.Booking) error {
	r.updated = true
	return nil
}

func (r *cancelRepo) HasCompletedBooking(ctx context.Context, studentID, skillID uint) (bool, error) {
	return false, nil
}

func (r *cancelRepo) ListBookingsByStudent(ctx context.Context, studentID uint) ([]models.Booking, error) {
	return nil, nil
}

func (r *cancelRepo) ListBookingsByInstructor(ctx context.Context, instructorID uint) ([]models.Booking, error) {
	return nil, nil
}

func (r *cancelRepo) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	return nil, nil
}

var _ domain.Repository = (*cancelRepo)(nil)

func cancelRouter(repo *cancelRepo, actor authz.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewBookingHandler(
		nil,
		nil,
		ucBooking.NewCancelBooking(repo, nil, nil),
		nil,
	)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, actor.ID)
		c.Set(middleware.ContextUserRole, actor.Role)
	})
	r.DELETE("/bookings/:id", h.Cancel)
	return r
}

func cancelRequest(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/bookings/9", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// --- tests ---

func TestCancelBookingWithEmptyBody(t *testing.T) {
	repo := &cancelRepo{booking: &models.Booking{ID: 9, StudentID: 1, InstructorID: 2, Status: "pending"}}
	r := cancelRouter(repo, authz.Identity{ID: 1, Role: authz.RoleStudent})

	w := cancelRequest(r, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !repo.updated {
		t.Error("booking was not persisted")
	}
}

// The reason bound is 500 characters, not bytes: a multi-byte reason at
// the limit passes, one character over is a validation error rather than
// a storage failure.
func TestCancelBookingReasonBound(t *testing.T) {
	atLimit := strings.Repeat("я", 500)
	overLimit := strings.Repeat("я", 501)

	repo := &cancelRepo{booking: &models.Booking{ID: 9, StudentID: 1, InstructorID: 2, Status: "pending"}}
	r := cancelRouter(repo, authz.Identity{ID: 1, Role: authz.RoleStudent})

	body, _ := json.Marshal(gin.H{"reason": overLimit})
	w := cancelRequest(r, string(body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("over-limit reason: status = %d, want 400: %s", w.Code, w.Body.String())
	}
	if repo.updated {
		t.Fatal("booking updated despite invalid reason")
	}

	var resp struct {
		Code string `json:"error_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if resp.Code != "invalid_input" {
		t.Errorf("error_code = %q, want invalid_input", resp.Code)
	}

	body, _ = json.Marshal(gin.H{"reason": atLimit})
	w = cancelRequest(r, string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("at-limit reason: status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if repo.booking.CancellationReason != atLimit {
		t.Error("reason not recorded")
	}
}

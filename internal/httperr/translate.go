package httperr

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var statusByCode = map[string]int{
	CodeUserNotFound:    http.StatusNotFound,
	CodeSkillNotFound:   http.StatusNotFound,
	CodeBookingNotFound: http.StatusNotFound,
	CodeReviewNotFound:  http.StatusNotFound,

	CodeNotAuthorized:     http.StatusForbidden,
	CodeReviewNotEligible: http.StatusForbidden,

	CodeInvalidCredentials: http.StatusUnauthorized,

	CodeTimeConflict:    http.StatusConflict,
	CodeDuplicateReview: http.StatusConflict,

	CodeSelfBooking:       http.StatusBadRequest,
	CodeInvalidState:      http.StatusBadRequest,
	CodeInvalidDateOrTime: http.StatusBadRequest,
	CodeInvalidInput:      http.StatusBadRequest,

	CodeUploadsDisabled: http.StatusServiceUnavailable,
}

var messageByCode = map[string]string{
	CodeSkillNotFound:     "Skill not found",
	CodeBookingNotFound:   "Booking not found",
	CodeSelfBooking:       "You cannot book your own skill",
	CodeTimeConflict:      "This time slot is unavailable with the instructor",
	CodeDuplicateReview:   "You have already submitted a review for this skill",
	CodeReviewNotEligible: "Only users with a completed session can leave a review",
	CodeNotAuthorized:     "You are not allowed to perform this action",
	CodeInvalidState:      "This status change is not allowed",
}

// Translate maps a use-case error onto the wire. Unknown errors become a
// 500 and are logged; business codes get their fixed status.
func Translate(c *gin.Context, err error) {
	code := Code(err)
	if code == "" {
		log.Printf("internal error: %v", err)
		Internal(c, "internal_error", "Something went wrong")
		return
	}

	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusBadRequest
	}

	msg := messageByCode[code]
	if msg == "" {
		msg = code
	}

	Write(c, status, code, msg)
}

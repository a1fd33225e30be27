package httperr

import "errors"

// Business error codes raised by use cases and repositories. Handlers never
// invent codes of their own; everything user-facing goes through Translate.
const (
	CodeUserNotFound    = "user_not_found"
	CodeSkillNotFound   = "skill_not_found"
	CodeBookingNotFound = "booking_not_found"
	CodeReviewNotFound  = "review_not_found"

	CodeNotAuthorized      = "not_authorized"
	CodeReviewNotEligible  = "review_not_eligible"
	CodeInvalidCredentials = "invalid_credentials"

	CodeTimeConflict    = "time_conflict"
	CodeDuplicateReview = "duplicate_review"

	CodeSelfBooking       = "self_booking_forbidden"
	CodeInvalidState      = "invalid_state"
	CodeInvalidDateOrTime = "invalid_date_or_time"
	CodeInvalidInput      = "invalid_input"

	CodeUploadsDisabled = "uploads_disabled"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Code extracts the business code from err, or "" when err is not a
// BusinessError.
func Code(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

package authz

import "github.com/skillhubapp/skillhub-api/internal/models"

// ===============================
// Roles
// ===============================

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// Identity is the authenticated caller as every capability check sees it:
// an id and a role, nothing else.
type Identity struct {
	ID   uint
	Role string
}

// ===============================
// Predicates
// ===============================

func IsAdmin(id Identity) bool {
	return id.Role == RoleAdmin
}

func IsOwner(id Identity, ownerID uint) bool {
	return id.ID == ownerID
}

// IsParticipant reports whether the identity is the booking's student or
// instructor.
func IsParticipant(id Identity, b *models.Booking) bool {
	return id.ID == b.StudentID || id.ID == b.InstructorID
}

func IsOwnerOrAdmin(id Identity, ownerID uint) bool {
	return IsOwner(id, ownerID) || IsAdmin(id)
}

func IsParticipantOrAdmin(id Identity, b *models.Booking) bool {
	return IsParticipant(id, b) || IsAdmin(id)
}

package auth

import "time"

// Roles known to the system. A credential carries exactly one.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Credential links a login email to a password hash, a role, and an optional
// domain record.
type Credential struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	RefID        string    `json:"ref_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated caller as surfaced to handlers. RefID is an
// opaque link to a teacher/student/admin record; it is never validated for
// existence at this layer.
type Identity struct {
	Email string
	Role  string
	RefID string
}

// IsAnonymous reports whether no identity was resolved for the request.
func (id Identity) IsAnonymous() bool {
	return id.Email == ""
}

// ValidRole reports whether the role is one the system accepts at registration.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

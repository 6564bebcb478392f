package multitenancy

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors for conditions that are not tied to a single entity
// lookup.
var (
	// ErrNotAMember is returned when an organization switch is requested
	// for a user without a membership in the target organization.
	ErrNotAMember = errors.New("user is not a member of the specified organization")

	// ErrNoActiveOrganization is returned when an active-organization-scoped
	// check is invoked for a user whose active organization cannot be
	// resolved. Given the switching invariant this should not occur in
	// normal operation.
	ErrNoActiveOrganization = errors.New("user has no active organization")

	// ErrInvitationNotFound covers both a nonexistent invitation id and a
	// double acceptance: accepting clears the pending marker, so a second
	// accept no longer finds a pending row.
	ErrInvitationNotFound = errors.New("invitation not found or already accepted")
)

// NotFoundError reports that a referenced entity does not exist. Entity is
// the kind ("Role", "Organization", ...), Key identifies the row by name or
// id.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// RoleNotSeededError reports that a well-known role (OWNER, MEMBER) is
// missing from the roles table. This is a deployment defect, not a user
// error: the seeder must run before users can be provisioned.
type RoleNotSeededError struct {
	Role string
}

func (e *RoleNotSeededError) Error() string {
	return fmt.Sprintf("%s role not found. Please ensure the database is properly seeded.", e.Role)
}

// ValidationError reports malformed input rejected before any datastore
// write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// IsDuplicateKey reports whether err is a uniqueness-constraint violation.
// The database layer enables gorm's error translation, so driver-specific
// unique violations all surface as gorm.ErrDuplicatedKey.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsNotFound reports whether err is any of the package's absence errors.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) || errors.Is(err, ErrInvitationNotFound)
}

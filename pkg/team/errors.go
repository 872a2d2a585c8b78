package team

import (
	"errors"
	"fmt"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrMemberNotFound        = errors.New("member not found in team")
	ErrMemberExists          = errors.New("member already exists in team")
	ErrCannotRemoveOwner     = errors.New("cannot remove the team owner")
	ErrCannotChangeOwnerRole = errors.New("cannot change the team owner's role")
	ErrInvalidRole           = errors.New("invalid member role")
	ErrInvalidPermission     = errors.New("invalid share permission")
)

// TeamError wraps team-related errors with additional context.
type TeamError struct {
	Op       string // Operation being performed (e.g., "AddMember", "ShareWorkflow")
	TeamID   string // Team ID if applicable
	MemberID string // Member ID if applicable
	Err      error  // Underlying error
}

func (e *TeamError) Error() string {
	if e.MemberID != "" {
		return fmt.Sprintf("%s operation failed for team %s member %s: %v", e.Op, e.TeamID, e.MemberID, e.Err)
	}

	return fmt.Sprintf("%s operation failed for team %s: %v", e.Op, e.TeamID, e.Err)
}

func (e *TeamError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for team errors.
func (e *TeamError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newTeamError(op, teamID, memberID string, err error) *TeamError {
	return &TeamError{Op: op, TeamID: teamID, MemberID: memberID, Err: err}
}

func IsTeamNotFound(err error) bool {
	return errors.Is(err, ErrTeamNotFound)
}

// IsConflict reports whether err violates a membership rule: a duplicate
// member or an attempt to demote or remove the owner.
func IsConflict(err error) bool {
	return errors.Is(err, ErrMemberExists) ||
		errors.Is(err, ErrCannotRemoveOwner) ||
		errors.Is(err, ErrCannotChangeOwnerRole)
}

// IsInvalidInput reports whether err names an unknown role or permission.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidRole) || errors.Is(err, ErrInvalidPermission)
}

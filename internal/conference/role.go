package conference

import (
	"fmt"
	"strings"
)

// Role is a user's label within one conference. The set is closed: strings
// outside it are rejected at the boundary by ParseRole.
type Role string

const (
	Organizer Role = "organizer"
	Reviewer  Role = "reviewer"
	Presenter Role = "presenter"
	Attendee  Role = "attendee"
)

// Roles lists every valid role.
var Roles = []Role{Organizer, Reviewer, Presenter, Attendee}

// ParseRole converts a raw label into a Role.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case Organizer, Reviewer, Presenter, Attendee:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Capabilities describe which dashboard actions a role is presented with.
// They are labels for the presentation layer and gate nothing in the core.
type Capabilities struct {
	ReviewPapers bool `json:"review_papers"`
	SubmitPapers bool `json:"submit_papers"`
	ManageTasks  bool `json:"manage_tasks"`
	ViewStats    bool `json:"view_stats"`
}

// Capabilities maps the role to its dashboard actions.
func (r Role) Capabilities() Capabilities {
	switch r {
	case Organizer:
		return Capabilities{ReviewPapers: true, ManageTasks: true, ViewStats: true}
	case Reviewer:
		return Capabilities{ReviewPapers: true}
	case Presenter:
		return Capabilities{SubmitPapers: true}
	case Attendee:
		return Capabilities{}
	default:
		return Capabilities{}
	}
}

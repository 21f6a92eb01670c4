package user

import (
	"encoding/json"
	"strings"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
)

// RoleName identifies a role. The shell gates routes on the constants below;
// roles created at runtime keep their own names.
type RoleName string

const (
	RoleAdmin       RoleName = "ADMIN"
	RoleCoordinator RoleName = "COORDINATOR"
	RoleProfessor   RoleName = "PROFESSOR"
	RoleStudent     RoleName = "STUDENT"
)

var (
	AllRoles = []RoleName{RoleAdmin, RoleCoordinator, RoleProfessor, RoleStudent}

	// StaffRoles run the academic back office.
	StaffRoles = []RoleName{RoleAdmin, RoleCoordinator}

	rolePriorities = map[RoleName]int{
		RoleAdmin:       30,
		RoleCoordinator: 20,
		RoleProfessor:   11,
		RoleStudent:     1,
	}
)

// ParseRole normalizes "role_admin", "ROLE_ADMIN" or "admin" into RoleAdmin.
func ParseRole(s string) RoleName {
	s = strings.ToUpper(strings.TrimSpace(s))
	return RoleName(strings.TrimPrefix(s, "ROLE_"))
}

func (r RoleName) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleCoordinator:
		return "Coordinator"
	case RoleProfessor:
		return "Professor"
	case RoleStudent:
		return "Student"
	}
	return core.Humanize(string(r))
}

// UnmarshalJSON accepts a plain name or a role object.
func (r *RoleName) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		name = obj.Name
	}
	*r = ParseRole(name)
	return nil
}

func RolePriority(role RoleName) int {
	return rolePriorities[role]
}

// PrimaryRole returns the highest priority role, or "" when none is known.
func PrimaryRole(roles []RoleName) RoleName {
	var primary RoleName
	var max int
	for _, role := range roles {
		if p := RolePriority(role); p > max {
			max, primary = p, role
		}
	}
	return primary
}

// Requirement is met when the user holds any one of its roles.
// An empty Requirement only asks for an authenticated user.
type Requirement []RoleName

func RequiresAnyOf(roles ...RoleName) Requirement {
	return roles
}

func (req Requirement) SatisfiedBy(roles []RoleName) bool {
	if len(req) == 0 {
		return true
	}
	for _, want := range req {
		for _, have := range roles {
			if want == have {
				return true
			}
		}
	}
	return false
}

package pages

import (
	"fmt"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
)

// CanRemoveRole refuses to delete a role that users still hold.
func CanRemoveRole(r user.Role) error {
	if r.InUse() {
		return fmt.Errorf("role %s is assigned to %d user(s) and cannot be deleted", r.Name, r.UserCount)
	}
	return nil
}

package user

import (
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
)

type User struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Active   bool       `json:"active"`
	Roles    []RoleName `json:"roles"`
}

func (u User) HasRole(role RoleName) bool {
	return RequiresAnyOf(role).SatisfiedBy(u.Roles)
}

func (u User) HasAnyRole(roles ...RoleName) bool {
	return RequiresAnyOf(roles...).SatisfiedBy(u.Roles)
}

// LogIdentity identifies the user in error reports.
func (u User) LogIdentity() (id, username, email string) {
	return strconv.FormatInt(u.ID, 10), u.Username, u.Email
}

// Form creates or updates a User. Password is only required on creation.
type Form struct {
	Username        string   `json:"username" form:"username" validate:"required,min=4,max=50,alphanum_"`
	Email           string   `json:"email" form:"email" validate:"required,email,max=100"`
	Password        string   `json:"password,omitempty" form:"password"`
	PasswordConfirm string   `json:"passwordConfirm,omitempty" form:"passwordConfirm" validate:"required_with=Password,eqfield=Password"`
	Active          bool     `json:"active" form:"active"`
	Roles           []string `json:"roles" form:"roles" validate:"min=1,dive,notblank"`

	Editing bool `json:"-" form:"-"`
}

func FormFrom(u User) Form {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return Form{Username: u.Username, Email: u.Email, Active: u.Active, Roles: roles, Editing: true}
}

func (f *Form) Validate(validate *validator.Validate) error {
	f.Username = core.CleanString(f.Username, true /* lower */)
	f.Email = core.CleanString(f.Email, true /* lower */)
	for i, r := range f.Roles {
		f.Roles[i] = string(ParseRole(r))
	}
	return validate.Struct(f)
}

type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UserCount   int    `json:"userCount"`
}

// InUse reports whether users still reference the role.
func (r Role) InUse() bool {
	return r.UserCount > 0
}

type RoleForm struct {
	Name        string `json:"name" form:"name" validate:"required,notblank,max=50,alphanum_"`
	Description string `json:"description" form:"description" validate:"max=255"`
}

func RoleFormFrom(r Role) RoleForm {
	return RoleForm{Name: r.Name, Description: r.Description}
}

func (f *RoleForm) Validate(validate *validator.Validate) error {
	f.Name = string(ParseRole(f.Name))
	f.Description = core.CleanString(f.Description)
	return validate.Struct(f)
}

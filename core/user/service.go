package user

import (
	"context"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

// Service wraps /users.
type Service struct {
	api.Resource[User, Form]
}

func NewService(req api.Requester) *Service {
	return &Service{Resource: api.NewResource[User, Form](req, "/users")}
}

// RoleService wraps /roles.
type RoleService struct {
	api.Resource[Role, RoleForm]
}

func NewRoleService(req api.Requester) *RoleService {
	return &RoleService{Resource: api.NewResource[Role, RoleForm](req, "/roles")}
}

// All returns every role with its user count.
func (svc *RoleService) All(ctx context.Context) ([]Role, error) {
	return svc.List(ctx, "all")
}

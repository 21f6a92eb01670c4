package course

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

type Course struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TotalLevels int    `json:"totalLevels"`
	Active      bool   `json:"active"`
}

type Form struct {
	Code        string `json:"code" form:"code" validate:"required,notblank,max=20"`
	Name        string `json:"name" form:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" form:"description" validate:"max=500"`
	TotalLevels int    `json:"totalLevels" form:"totalLevels" validate:"required,min=1,max=12"`
	Active      bool   `json:"active" form:"active"`
}

func FormFrom(c Course) Form {
	return Form{Code: c.Code, Name: c.Name, Description: c.Description, TotalLevels: c.TotalLevels, Active: c.Active}
}

func (f *Form) Validate(validate *validator.Validate) error {
	f.Code = core.CleanString(f.Code)
	f.Name = core.CleanString(f.Name)
	f.Description = core.CleanString(f.Description)
	return validate.Struct(f)
}

// Service wraps /courses.
type Service struct {
	api.Resource[Course, Form]
}

func NewService(req api.Requester) *Service {
	return &Service{Resource: api.NewResource[Course, Form](req, "/courses")}
}

func (svc *Service) Active(ctx context.Context) ([]Course, error) {
	return svc.List(ctx, "active")
}

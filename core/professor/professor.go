package professor

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/person"
)

type Professor struct {
	person.Person
	Specialty string `json:"specialty"`
}

type Form struct {
	person.Form
	Specialty string `json:"specialty" form:"specialty" validate:"max=100"`
}

func FormFrom(p Professor) Form {
	return Form{Form: person.FormFrom(p.Person), Specialty: p.Specialty}
}

func (f *Form) Validate(validate *validator.Validate) error {
	f.Form.Clean()
	f.Specialty = core.CleanString(f.Specialty)
	return validate.Struct(f)
}

type Service struct {
	api.Resource[Professor, Form]
}

func NewService(req api.Requester) *Service {
	return &Service{Resource: api.NewResource[Professor, Form](req, "/professors")}
}

// Active lists professors that can take subject assignments.
func (svc *Service) Active(ctx context.Context) ([]Professor, error) {
	return svc.List(ctx, "active")
}

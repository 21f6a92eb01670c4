package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/person"
)

type Student struct {
	person.Person
	BirthDate core.Date `json:"birthDate"`
}

type Form struct {
	person.Form
	BirthDate string `json:"birthDate,omitempty" form:"birthDate" validate:"omitempty,datetime=2006-01-02"`
}

func FormFrom(s Student) Form {
	return Form{Form: person.FormFrom(s.Person), BirthDate: s.BirthDate.String()}
}

func (f *Form) Validate(validate *validator.Validate) error {
	f.Form.Clean()
	f.BirthDate = core.CleanString(f.BirthDate)
	return validate.Struct(f)
}

// Service wraps /students, including GET /students/search?term=.
type Service struct {
	api.Resource[Student, Form]
}

func NewService(req api.Requester) *Service {
	return &Service{Resource: api.NewResource[Student, Form](req, "/students")}
}

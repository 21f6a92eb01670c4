package academic

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

// Period is an academic term. At most one is active; the API enforces it.
type Period struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartDate core.Date `json:"startDate"`
	EndDate   core.Date `json:"endDate"`
	Active    bool      `json:"active"`
}

type PeriodForm struct {
	Name      string `json:"name" form:"name" validate:"required,notblank,max=50"`
	StartDate string `json:"startDate" form:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" form:"endDate" validate:"required,datetime=2006-01-02"`
	Active    bool   `json:"active" form:"active"`
}

func PeriodFormFrom(p Period) PeriodForm {
	return PeriodForm{Name: p.Name, StartDate: p.StartDate.String(), EndDate: p.EndDate.String(), Active: p.Active}
}

func (f *PeriodForm) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	f.StartDate = core.CleanString(f.StartDate)
	f.EndDate = core.CleanString(f.EndDate)
	return validate.Struct(f)
}

func periodStructValidation(sl validator.StructLevel) {
	f := sl.Current().Interface().(PeriodForm)
	core.ValidateDateRange(sl, f.StartDate, f.EndDate, "endDate", "EndDate")
}

// InitValidators registers the cross-field checks of this package's forms.
func InitValidators(validate *validator.Validate) {
	validate.RegisterStructValidation(periodStructValidation, PeriodForm{})
}

type PeriodService struct {
	api.Resource[Period, PeriodForm]
}

func NewPeriodService(req api.Requester) *PeriodService {
	return &PeriodService{Resource: api.NewResource[Period, PeriodForm](req, "/academic-periods")}
}

// Current returns the active period.
func (svc *PeriodService) Current(ctx context.Context) (Period, error) {
	return svc.One(ctx, "current")
}

package academic

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

type Subject struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	WeeklyHours int    `json:"weeklyHours"`
	LevelID     int64  `json:"levelId"`
	LevelName   string `json:"levelName"`
}

type SubjectForm struct {
	Code        string `json:"code" form:"code" validate:"required,notblank,max=20"`
	Name        string `json:"name" form:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" form:"description" validate:"max=500"`
	WeeklyHours int    `json:"weeklyHours" form:"weeklyHours" validate:"required,min=1,max=40"`
	LevelID     int64  `json:"levelId" form:"levelId" validate:"required"`
}

func SubjectFormFrom(s Subject) SubjectForm {
	return SubjectForm{Code: s.Code, Name: s.Name, Description: s.Description, WeeklyHours: s.WeeklyHours, LevelID: s.LevelID}
}

func (f *SubjectForm) Validate(validate *validator.Validate) error {
	f.Code = core.CleanString(f.Code)
	f.Name = core.CleanString(f.Name)
	f.Description = core.CleanString(f.Description)
	return validate.Struct(f)
}

type SubjectService struct {
	api.Resource[Subject, SubjectForm]
}

func NewSubjectService(req api.Requester) *SubjectService {
	return &SubjectService{Resource: api.NewResource[Subject, SubjectForm](req, "/subjects")}
}

func (svc *SubjectService) ByLevel(ctx context.Context, levelID int64) ([]Subject, error) {
	return svc.List(ctx, "level", api.ID(levelID))
}

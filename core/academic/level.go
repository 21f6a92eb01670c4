// Package academic covers the academic structure: levels, subjects, periods and subject assignments.
package academic

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

// Level is one step of a course, numbered from 1.
type Level struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"courseId"`
	CourseName  string `json:"courseName"`
	LevelNumber int    `json:"levelNumber"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LevelForm struct {
	CourseID    int64  `json:"courseId" form:"courseId" validate:"required"`
	LevelNumber int    `json:"levelNumber" form:"levelNumber" validate:"required,min=1,max=12"`
	Name        string `json:"name" form:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" form:"description" validate:"max=500"`
}

func LevelFormFrom(l Level) LevelForm {
	return LevelForm{CourseID: l.CourseID, LevelNumber: l.LevelNumber, Name: l.Name, Description: l.Description}
}

func (f *LevelForm) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	f.Description = core.CleanString(f.Description)
	return validate.Struct(f)
}

type LevelService struct {
	api.Resource[Level, LevelForm]
}

func NewLevelService(req api.Requester) *LevelService {
	return &LevelService{Resource: api.NewResource[Level, LevelForm](req, "/levels")}
}

func (svc *LevelService) ByCourse(ctx context.Context, courseID int64) ([]Level, error) {
	return svc.List(ctx, "course", api.ID(courseID))
}

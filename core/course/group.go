package course

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

// Schedule shifts of a group.
const (
	ShiftMorning   = "MORNING"
	ShiftAfternoon = "AFTERNOON"
	ShiftEvening   = "EVENING"
	ShiftWeekend   = "WEEKEND"
)

var Shifts = []string{ShiftMorning, ShiftAfternoon, ShiftEvening, ShiftWeekend}

// Group is a cohort of a course in one academic period.
type Group struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Shift            string `json:"shift"`
	Capacity         int    `json:"capacity"`
	CourseID         int64  `json:"courseId"`
	CourseName       string `json:"courseName"`
	AcademicPeriodID int64  `json:"academicPeriodId"`
	PeriodName       string `json:"academicPeriodName"`
	Active           bool   `json:"active"`
}

type GroupForm struct {
	Name             string `json:"name" form:"name" validate:"required,notblank,max=50"`
	Shift            string `json:"shift" form:"shift" validate:"required,oneof=MORNING AFTERNOON EVENING WEEKEND"`
	Capacity         int    `json:"capacity" form:"capacity" validate:"required,min=1,max=100"`
	CourseID         int64  `json:"courseId" form:"courseId" validate:"required"`
	AcademicPeriodID int64  `json:"academicPeriodId" form:"academicPeriodId" validate:"required"`
	Active           bool   `json:"active" form:"active"`
}

func GroupFormFrom(g Group) GroupForm {
	return GroupForm{
		Name:             g.Name,
		Shift:            g.Shift,
		Capacity:         g.Capacity,
		CourseID:         g.CourseID,
		AcademicPeriodID: g.AcademicPeriodID,
		Active:           g.Active,
	}
}

func (f *GroupForm) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	f.Shift = core.CleanString(f.Shift)
	return validate.Struct(f)
}

// GroupService wraps /course-groups.
type GroupService struct {
	api.Resource[Group, GroupForm]
}

func NewGroupService(req api.Requester) *GroupService {
	return &GroupService{Resource: api.NewResource[Group, GroupForm](req, "/course-groups")}
}

func (svc *GroupService) ByCourse(ctx context.Context, courseID int64) ([]Group, error) {
	return svc.List(ctx, "course", api.ID(courseID))
}

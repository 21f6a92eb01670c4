package academic

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

// Assignment binds a professor to a subject for one academic period.
type Assignment struct {
	ID               int64  `json:"id"`
	SubjectID        int64  `json:"subjectId"`
	SubjectName      string `json:"subjectName"`
	ProfessorID      int64  `json:"professorId"`
	ProfessorName    string `json:"professorName"`
	AcademicPeriodID int64  `json:"academicPeriodId"`
	PeriodName       string `json:"academicPeriodName"`
	Schedule         string `json:"schedule"`
	Classroom        string `json:"classroom"`
	Active           bool   `json:"active"`
}

type AssignmentForm struct {
	SubjectID        int64  `json:"subjectId" form:"subjectId" validate:"required"`
	ProfessorID      int64  `json:"professorId" form:"professorId" validate:"required"`
	AcademicPeriodID int64  `json:"academicPeriodId" form:"academicPeriodId" validate:"required"`
	Schedule         string `json:"schedule" form:"schedule" validate:"max=100"`
	Classroom        string `json:"classroom" form:"classroom" validate:"max=50"`
	Active           bool   `json:"active" form:"active"`
}

func AssignmentFormFrom(a Assignment) AssignmentForm {
	return AssignmentForm{
		SubjectID:        a.SubjectID,
		ProfessorID:      a.ProfessorID,
		AcademicPeriodID: a.AcademicPeriodID,
		Schedule:         a.Schedule,
		Classroom:        a.Classroom,
		Active:           a.Active,
	}
}

func (f *AssignmentForm) Validate(validate *validator.Validate) error {
	f.Schedule = core.CleanString(f.Schedule)
	f.Classroom = core.CleanString(f.Classroom)
	return validate.Struct(f)
}

// AssignmentService wraps /subject-assignments.
type AssignmentService struct {
	api.Resource[Assignment, AssignmentForm]
}

func NewAssignmentService(req api.Requester) *AssignmentService {
	return &AssignmentService{Resource: api.NewResource[Assignment, AssignmentForm](req, "/subject-assignments")}
}

func (svc *AssignmentService) BySubjectAndPeriod(ctx context.Context, subjectID, periodID int64) ([]Assignment, error) {
	return svc.List(ctx, "subject", api.ID(subjectID), "period", api.ID(periodID))
}

func (svc *AssignmentService) ByProfessor(ctx context.Context, professorID int64) ([]Assignment, error) {
	return svc.List(ctx, "professor", api.ID(professorID))
}

package grading

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sendgrid/rest"
	"github.com/volatiletech/null/v8"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

type Status string

const (
	Present Status = "PRESENT"
	Absent  Status = "ABSENT"
	Late    Status = "LATE"
	Excused Status = "EXCUSED"
)

var Statuses = []Status{Present, Absent, Late, Excused}

func (s Status) Label() string {
	switch s {
	case Present:
		return "Present"
	case Absent:
		return "Absent"
	case Late:
		return "Late"
	case Excused:
		return "Excused"
	}
	return string(s)
}

type Attendance struct {
	ID                  int64       `json:"id"`
	SubjectEnrollmentID int64       `json:"subjectEnrollmentId"`
	SessionDate         core.Date   `json:"sessionDate"`
	Status              Status      `json:"status"`
	Notes               null.String `json:"notes"`
}

type AttendanceInput struct {
	SubjectEnrollmentID int64       `json:"subjectEnrollmentId" validate:"required"`
	SessionDate         string      `json:"sessionDate" validate:"required,datetime=2006-01-02"`
	Status              Status      `json:"status" validate:"oneof=PRESENT ABSENT LATE EXCUSED"`
	Notes               null.String `json:"notes"`
}

func (in AttendanceInput) Validate(validate *validator.Validate) error {
	return validate.Struct(in)
}

type AttendanceService struct {
	api.Resource[Attendance, AttendanceInput]
	req api.Requester
}

func NewAttendanceService(req api.Requester) *AttendanceService {
	return &AttendanceService{Resource: api.NewResource[Attendance, AttendanceInput](req, "/attendance"), req: req}
}

func (svc *AttendanceService) BySubjectEnrollment(ctx context.Context, subjectEnrollmentID int64) ([]Attendance, error) {
	return svc.List(ctx, "subject-enrollment", api.ID(subjectEnrollmentID))
}

// CreateBatch posts a whole session in one call.
func (svc *AttendanceService) CreateBatch(ctx context.Context, inputs []AttendanceInput) ([]Attendance, error) {
	var records []Attendance
	err := svc.req.Do(ctx, rest.Post, svc.Path("batch"), nil, inputs, &records)
	return records, err
}

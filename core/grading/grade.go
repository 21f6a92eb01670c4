// Package grading wraps grades and attendance and computes their derived statistics.
package grading

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sendgrid/rest"
	"github.com/volatiletech/null/v8"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

// Component is one of the three graded dimensions of a period.
type Component string

const (
	Knowledge   Component = "KNOWLEDGE"
	Performance Component = "PERFORMANCE"
	Product     Component = "PRODUCT"
)

var Components = []Component{Knowledge, Performance, Product}

// Periods are the grading moments of a term.
var Periods = []int{1, 2, 3}

const (
	MinGrade     = 0.0
	MaxGrade     = 5.0
	PassingGrade = 3.0
)

func (c Component) Label() string {
	switch c {
	case Knowledge:
		return "Knowledge"
	case Performance:
		return "Performance"
	case Product:
		return "Product"
	}
	return string(c)
}

type Grade struct {
	ID                  int64       `json:"id"`
	SubjectEnrollmentID int64       `json:"subjectEnrollmentId"`
	Period              int         `json:"period"`
	Component           Component   `json:"component"`
	Value               float64     `json:"value"`
	Observations        null.String `json:"observations"`
}

type GradeInput struct {
	SubjectEnrollmentID int64       `json:"subjectEnrollmentId" validate:"required"`
	Period              int         `json:"period" validate:"min=1,max=3"`
	Component           Component   `json:"component" validate:"oneof=KNOWLEDGE PERFORMANCE PRODUCT"`
	Value               float64     `json:"value" validate:"gte=0,lte=5"`
	Observations        null.String `json:"observations"`
}

func (in GradeInput) Validate(validate *validator.Validate) error {
	return validate.Struct(in)
}

type GradeService struct {
	api.Resource[Grade, GradeInput]
	req api.Requester
}

func NewGradeService(req api.Requester) *GradeService {
	return &GradeService{Resource: api.NewResource[Grade, GradeInput](req, "/grades"), req: req}
}

func (svc *GradeService) BySubjectEnrollment(ctx context.Context, subjectEnrollmentID int64) ([]Grade, error) {
	return svc.List(ctx, "subject-enrollment", api.ID(subjectEnrollmentID))
}

// CreateBatch posts many grades in one call.
func (svc *GradeService) CreateBatch(ctx context.Context, inputs []GradeInput) ([]Grade, error) {
	var grades []Grade
	err := svc.req.Do(ctx, rest.Post, svc.Path("batch"), nil, inputs, &grades)
	return grades, err
}

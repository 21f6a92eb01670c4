// Package enrollment wraps the three enrollment tiers: course, level and subject.
package enrollment

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

// Enrollment statuses.
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusWithdrawn = "WITHDRAWN"
)

type CourseEnrollment struct {
	ID             int64     `json:"id"`
	StudentID      int64     `json:"studentId"`
	StudentName    string    `json:"studentName"`
	CourseID       int64     `json:"courseId"`
	CourseName     string    `json:"courseName"`
	EnrollmentDate core.Date `json:"enrollmentDate"`
	Status         string    `json:"status"`
}

type NewCourseEnrollment struct {
	StudentID      int64  `json:"studentId"`
	CourseID       int64  `json:"courseId"`
	EnrollmentDate string `json:"enrollmentDate"`
	Status         string `json:"status"`
}

type LevelEnrollment struct {
	ID                 int64     `json:"id"`
	CourseEnrollmentID int64     `json:"courseEnrollmentId"`
	StudentID          int64     `json:"studentId"`
	StudentName        string    `json:"studentName"`
	LevelID            int64     `json:"levelId"`
	LevelName          string    `json:"levelName"`
	GroupID            int64     `json:"groupId"`
	GroupName          string    `json:"groupName"`
	AcademicPeriodID   int64     `json:"academicPeriodId"`
	EnrollmentDate     core.Date `json:"enrollmentDate"`
	Status             string    `json:"status"`
}

type NewLevelEnrollment struct {
	CourseEnrollmentID int64  `json:"courseEnrollmentId"`
	LevelID            int64  `json:"levelId"`
	GroupID            int64  `json:"groupId"`
	AcademicPeriodID   int64  `json:"academicPeriodId"`
	EnrollmentDate     string `json:"enrollmentDate"`
	Status             string `json:"status"`
}

type SubjectEnrollment struct {
	ID                  int64       `json:"id"`
	LevelEnrollmentID   int64       `json:"levelEnrollmentId"`
	StudentID           int64       `json:"studentId"`
	StudentName         string      `json:"studentName"`
	SubjectID           int64       `json:"subjectId"`
	SubjectName         string      `json:"subjectName"`
	SubjectAssignmentID null.Int64  `json:"subjectAssignmentId"`
	ProfessorName       null.String `json:"professorName"`
	EnrollmentDate      core.Date   `json:"enrollmentDate"`
	Status              string      `json:"status"`
}

// HasProfessor reports whether the enrollment is linked to a subject assignment.
func (se SubjectEnrollment) HasProfessor() bool {
	return se.SubjectAssignmentID.Valid
}

type NewSubjectEnrollment struct {
	LevelEnrollmentID   int64      `json:"levelEnrollmentId"`
	SubjectID           int64      `json:"subjectId"`
	SubjectAssignmentID null.Int64 `json:"subjectAssignmentId"`
	EnrollmentDate      string     `json:"enrollmentDate"`
	Status              string     `json:"status"`
}

type Service struct {
	courses  api.Resource[CourseEnrollment, NewCourseEnrollment]
	levels   api.Resource[LevelEnrollment, NewLevelEnrollment]
	subjects api.Resource[SubjectEnrollment, NewSubjectEnrollment]
}

func NewService(req api.Requester) *Service {
	return &Service{
		courses:  api.NewResource[CourseEnrollment, NewCourseEnrollment](req, "/course-enrollments"),
		levels:   api.NewResource[LevelEnrollment, NewLevelEnrollment](req, "/level-enrollments"),
		subjects: api.NewResource[SubjectEnrollment, NewSubjectEnrollment](req, "/subject-enrollments"),
	}
}

// CourseEnrollments exposes the paged /course-enrollments collection.
func (svc *Service) CourseEnrollments() api.Resource[CourseEnrollment, NewCourseEnrollment] {
	return svc.courses
}

func (svc *Service) CreateCourseEnrollment(ctx context.Context, ne NewCourseEnrollment) (CourseEnrollment, error) {
	return svc.courses.Create(ctx, ne)
}

// DeleteCourseEnrollment removes the top tier; the API cascades to the lower tiers.
func (svc *Service) DeleteCourseEnrollment(ctx context.Context, id int64) error {
	return svc.courses.Delete(ctx, id)
}

func (svc *Service) CreateLevelEnrollment(ctx context.Context, ne NewLevelEnrollment) (LevelEnrollment, error) {
	return svc.levels.Create(ctx, ne)
}

func (svc *Service) LevelEnrollmentsByGroup(ctx context.Context, groupID int64) ([]LevelEnrollment, error) {
	return svc.levels.List(ctx, "group", api.ID(groupID))
}

func (svc *Service) LevelEnrollmentsByCourseEnrollment(ctx context.Context, courseEnrollmentID int64) ([]LevelEnrollment, error) {
	return svc.levels.List(ctx, "course-enrollment", api.ID(courseEnrollmentID))
}

func (svc *Service) CreateSubjectEnrollment(ctx context.Context, ne NewSubjectEnrollment) (SubjectEnrollment, error) {
	return svc.subjects.Create(ctx, ne)
}

func (svc *Service) SubjectEnrollmentsByLevelEnrollment(ctx context.Context, levelEnrollmentID int64) ([]SubjectEnrollment, error) {
	return svc.subjects.List(ctx, "level-enrollment", api.ID(levelEnrollmentID))
}

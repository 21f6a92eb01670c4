package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/volatiletech/null/v8"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/enrollment"
)

type Step int

const (
	StepStudent Step = iota
	StepCourse
	StepLevelGroup
	StepSubjects
)

var Steps = []Step{StepStudent, StepCourse, StepLevelGroup, StepSubjects}

func (s Step) Title() string {
	switch s {
	case StepStudent:
		return "Student"
	case StepCourse:
		return "Course"
	case StepLevelGroup:
		return "Level & group"
	case StepSubjects:
		return "Subjects"
	}
	return ""
}

// maxParallelSubjectEnrollments bounds the subject enrollment fan-out.
const maxParallelSubjectEnrollments = 4

// Enroller creates the three enrollment tiers. enrollment.Service implements it.
type Enroller interface {
	CreateCourseEnrollment(ctx context.Context, ne enrollment.NewCourseEnrollment) (enrollment.CourseEnrollment, error)
	CreateLevelEnrollment(ctx context.Context, ne enrollment.NewLevelEnrollment) (enrollment.LevelEnrollment, error)
	CreateSubjectEnrollment(ctx context.Context, ne enrollment.NewSubjectEnrollment) (enrollment.SubjectEnrollment, error)
}

// Selection is what the operator picked so far.
type Selection struct {
	StudentID int64
	CourseID  int64
	LevelID   int64
	GroupID   int64
	PeriodID  int64
	// SubjectIDs in selection order; Assignments maps a subject to its subject assignment, when one exists.
	SubjectIDs     []int64
	Assignments    map[int64]int64
	EnrollmentDate string
}

// WizardResult is what a successful submit created.
type WizardResult struct {
	CourseEnrollment enrollment.CourseEnrollment
	LevelEnrollment  enrollment.LevelEnrollment
	Subjects         []enrollment.SubjectEnrollment
	WithProfessor    int
}

// Complete reports whether every subject enrollment came back with a professor.
func (r WizardResult) Complete() bool {
	return r.WithProfessor == len(r.Subjects)
}

func (r WizardResult) Message() string {
	if r.Complete() {
		return fmt.Sprintf("Enrollment completed: %d subject(s) enrolled, all with an assigned professor.", len(r.Subjects))
	}
	return fmt.Sprintf(
		"Enrollment completed with pending assignments: %d of %d subject(s) have an assigned professor.",
		r.WithProfessor, len(r.Subjects),
	)
}

// Wizard walks Student -> Course -> Level/Group -> Subjects, then creates the enrollment chain.
type Wizard struct {
	Deps
	enroller Enroller

	Step Step
	Selection
	Errors map[string]string
	Result *WizardResult
}

func NewWizard(deps Deps, enroller Enroller) *Wizard {
	w := &Wizard{Deps: deps, enroller: enroller}
	w.Reset()
	return w
}

// Reset starts over from the first step.
func (w *Wizard) Reset() {
	w.Step = StepStudent
	w.Selection = Selection{EnrollmentDate: core.Today().String()}
	w.Errors = nil
	w.Result = nil
}

func (w *Wizard) SelectStudent(id int64) {
	w.StudentID = id
}

// SelectCourse clears the choices that depend on the course.
func (w *Wizard) SelectCourse(id int64) {
	if id != w.CourseID {
		w.LevelID, w.GroupID, w.PeriodID = 0, 0, 0
		w.clearSubjects()
	}
	w.CourseID = id
}

// SelectLevelGroup clears the subjects when the level changes.
func (w *Wizard) SelectLevelGroup(levelID, groupID, periodID int64) {
	if levelID != w.LevelID {
		w.clearSubjects()
	}
	w.LevelID, w.GroupID, w.PeriodID = levelID, groupID, periodID
}

// SelectSubjects replaces the subject selection. assignments may be nil.
func (w *Wizard) SelectSubjects(subjectIDs []int64, assignments map[int64]int64) {
	w.SubjectIDs = append([]int64(nil), subjectIDs...)
	w.Assignments = assignments
}

func (w *Wizard) SetEnrollmentDate(date string) {
	w.EnrollmentDate = core.CleanString(date)
}

func (w *Wizard) clearSubjects() {
	w.SubjectIDs = nil
	w.Assignments = nil
}

// CanAdvance reports whether the current step has a selection. A group needs an academic
// period. The last step never advances.
func (w *Wizard) CanAdvance() bool {
	switch w.Step {
	case StepStudent:
		return w.StudentID != 0
	case StepCourse:
		return w.CourseID != 0
	case StepLevelGroup:
		return w.LevelID != 0 && w.GroupID != 0 && w.PeriodID != 0
	}
	return false
}

// Next moves forward when the current step has a selection.
func (w *Wizard) Next() bool {
	if !w.CanAdvance() {
		return false
	}
	w.Step++
	return true
}

func (w *Wizard) Previous() bool {
	if w.Step == StepStudent {
		return false
	}
	w.Step--
	return true
}

func (w *Wizard) validateFinal() bool {
	w.Errors = make(map[string]string)
	if len(w.SubjectIDs) == 0 {
		w.Errors["subjects"] = "select at least one subject"
	}
	if w.EnrollmentDate == "" {
		w.Errors["enrollmentDate"] = "this field is required"
	} else if _, err := core.ParseDate(w.EnrollmentDate); err != nil {
		w.Errors["enrollmentDate"] = "enter a valid date (YYYY-MM-DD)"
	}
	if len(w.Errors) == 0 {
		w.Errors = nil
		return true
	}
	return false
}

// Submit creates the course enrollment, then the level enrollment, then every subject
// enrollment in parallel. A failure at any tier reports the whole submit as failed;
// tiers already created are kept and named in a warning toast.
func (w *Wizard) Submit(ctx context.Context) (ok bool, err error) {
	if w.Step != StepSubjects || !w.validateFinal() {
		return false, nil
	}

	ce, err := w.enroller.CreateCourseEnrollment(ctx, enrollment.NewCourseEnrollment{
		StudentID:      w.StudentID,
		CourseID:       w.CourseID,
		EnrollmentDate: w.EnrollmentDate,
		Status:         enrollment.StatusActive,
	})
	if err != nil {
		return false, failWith(w.Deps, "creating course enrollment", err)
	}

	le, err := w.enroller.CreateLevelEnrollment(ctx, enrollment.NewLevelEnrollment{
		CourseEnrollmentID: ce.ID,
		LevelID:            w.LevelID,
		GroupID:            w.GroupID,
		AcademicPeriodID:   w.PeriodID,
		EnrollmentDate:     w.EnrollmentDate,
		Status:             enrollment.StatusActive,
	})
	if err != nil {
		w.warnKept(fmt.Sprintf("course enrollment #%d", ce.ID))
		return false, failWith(w.Deps, "creating level enrollment", err)
	}

	subjects, err := w.enrollSubjects(ctx, le.ID)
	if err != nil {
		w.warnKept(fmt.Sprintf("course enrollment #%d and level enrollment #%d", ce.ID, le.ID))
		return false, failWith(w.Deps, "creating subject enrollments", err)
	}

	res := WizardResult{CourseEnrollment: ce, LevelEnrollment: le, Subjects: subjects}
	for _, se := range subjects {
		if se.HasProfessor() {
			res.WithProfessor++
		}
	}
	if res.Complete() {
		w.Toaster.Success(res.Message())
	} else {
		w.Toaster.Warn(res.Message())
	}
	w.Result = &res
	return true, nil
}

func (w *Wizard) enrollSubjects(ctx context.Context, levelEnrollmentID int64) ([]enrollment.SubjectEnrollment, error) {
	results := make([]enrollment.SubjectEnrollment, len(w.SubjectIDs))
	sem := make(chan struct{}, maxParallelSubjectEnrollments)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for i, subjectID := range w.SubjectIDs {
		ne := enrollment.NewSubjectEnrollment{
			LevelEnrollmentID: levelEnrollmentID,
			SubjectID:         subjectID,
			EnrollmentDate:    w.EnrollmentDate,
			Status:            enrollment.StatusActive,
		}
		if assignmentID, ok := w.Assignments[subjectID]; ok && assignmentID != 0 {
			ne.SubjectAssignmentID = null.Int64From(assignmentID)
		}

		wg.Add(1)
		go func(i int, ne enrollment.NewSubjectEnrollment) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			se, err := w.enroller.CreateSubjectEnrollment(ctx, ne)
			if err != nil {
				once.Do(func() { firstErr = err })
				return
			}
			results[i] = se
		}(i, ne)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (w *Wizard) warnKept(what string) {
	w.Logger.Warn("enrollment left incomplete", map[string]interface{}{"kept": what, "studentId": w.StudentID})
	w.Toaster.Warn(capitalize(what) + " was created and kept. Review it before retrying.")
}

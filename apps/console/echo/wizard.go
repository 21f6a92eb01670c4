package echoconsole

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/pages"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/student"
)

const assignmentFieldPrefix = "assignment-"

type wizardStepView struct {
	Title   string
	Current bool
	Done    bool
}

type subjectChoice struct {
	ID           int64
	Label        string
	AssignmentID int64
	Professor    string
	Selected     bool
}

type wizardData struct {
	Steps      []wizardStepView
	StepName   string
	Selection  pages.Selection
	Errors     map[string]string
	Term       string
	Students   []option
	Courses    []option
	Levels     []option
	Groups     []option
	Subjects   []subjectChoice
	IsFirst    bool
	IsLast     bool
	Unassigned int
}

var stepNames = map[pages.Step]string{
	pages.StepStudent:    "student",
	pages.StepCourse:     "course",
	pages.StepLevelGroup: "levelGroup",
	pages.StepSubjects:   "subjects",
}

func (s *Server) wizardPage(ctx echo.Context) error {
	s.wizardMu.Lock()
	defer s.wizardMu.Unlock()
	w := s.wizard

	data := wizardData{
		StepName:  stepNames[w.Step],
		Selection: w.Selection,
		Errors:    w.Errors,
		IsFirst:   w.Step == pages.StepStudent,
		IsLast:    w.Step == pages.StepSubjects,
	}
	for _, step := range pages.Steps {
		data.Steps = append(data.Steps, wizardStepView{Title: step.Title(), Current: step == w.Step, Done: step < w.Step})
	}

	reqCtx := ctx.Request().Context()
	var err error
	switch w.Step {
	case pages.StepStudent:
		data.Term = core.CleanString(ctx.QueryParam("q"))
		data.Students, err = s.studentChoices(reqCtx, data.Term)
	case pages.StepCourse:
		data.Courses, err = s.courseOptions(reqCtx)
	case pages.StepLevelGroup:
		data.Levels, data.Groups, err = s.levelGroupChoices(reqCtx, w.CourseID)
	case pages.StepSubjects:
		data.Subjects, err = s.subjectChoices(reqCtx, w.Selection)
		for _, sc := range data.Subjects {
			if sc.Selected && sc.AssignmentID == 0 {
				data.Unassigned++
			}
		}
	}
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, "wizard", wizardRoute.Title, data)
}

func (s *Server) studentChoices(ctx context.Context, term string) ([]option, error) {
	pr := core.NewPageRequest(0, core.DefaultPageSize, core.Ordering{Field: "lastName", Ascending: true})
	var page core.Page[student.Student]
	var err error
	if term != "" {
		page, err = s.Services.Students.Search(ctx, term, pr)
	} else {
		page, err = s.Services.Students.Query(ctx, pr)
	}
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(page.Content))
	for _, st := range page.Content {
		if st.Active {
			opts = append(opts, idOption(st.ID, st.FullName()+" ("+st.Document()+")"))
		}
	}
	return opts, nil
}

func (s *Server) levelGroupChoices(ctx context.Context, courseID int64) (levels, groups []option, err error) {
	lvls, err := s.Services.Levels.ByCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	for _, l := range lvls {
		levels = append(levels, idOption(l.ID, strconv.Itoa(l.LevelNumber)+". "+l.Name))
	}

	grps, err := s.Services.Groups.ByCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	for _, g := range grps {
		if g.Active {
			groups = append(groups, idOption(g.ID, g.Name+" / "+g.Shift+" / "+g.PeriodName))
		}
	}
	return levels, groups, nil
}

// subjectChoices lists the level's subjects with the professor assigned for the group's period.
func (s *Server) subjectChoices(ctx context.Context, sel pages.Selection) ([]subjectChoice, error) {
	subjects, err := s.Services.Subjects.ByLevel(ctx, sel.LevelID)
	if err != nil {
		return nil, err
	}
	selected := make(map[int64]bool, len(sel.SubjectIDs))
	for _, id := range sel.SubjectIDs {
		selected[id] = true
	}

	choices := make([]subjectChoice, 0, len(subjects))
	for _, sub := range subjects {
		choice := subjectChoice{ID: sub.ID, Label: sub.Code + " " + sub.Name, Selected: selected[sub.ID]}
		if sel.PeriodID != 0 {
			assignments, err := s.Services.Assignments.BySubjectAndPeriod(ctx, sub.ID, sel.PeriodID)
			if err != nil {
				return nil, err
			}
			for _, a := range assignments {
				if a.Active {
					choice.AssignmentID, choice.Professor = a.ID, a.ProfessorName
					break
				}
			}
		}
		choices = append(choices, choice)
	}
	return choices, nil
}

func (s *Server) wizardStep(ctx echo.Context) error {
	s.wizardMu.Lock()
	defer s.wizardMu.Unlock()
	w := s.wizard

	switch ctx.FormValue("action") {
	case "reset":
		w.Reset()
	case "previous":
		w.Previous()
	case "next":
		if err := s.applySelection(ctx, w); err != nil {
			return err
		}
		if !w.Next() {
			if w.Step == pages.StepLevelGroup && w.GroupID != 0 && w.PeriodID == 0 {
				s.toaster.Warn("The selected group has no academic period. Assign one before enrolling.")
			} else {
				s.toaster.Warn("Make a selection before continuing.")
			}
		}
	case "submit":
		if err := s.applySelection(ctx, w); err != nil {
			return err
		}
		ok, err := w.Submit(ctx.Request().Context())
		if err != nil {
			return err
		}
		if ok {
			w.Reset()
			return ctx.Redirect(http.StatusSeeOther, courseEnrollmentsRoute.Path)
		}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown wizard action")
	}
	return ctx.Redirect(http.StatusSeeOther, wizardRoute.Path)
}

// applySelection records the posted choices of the current step.
func (s *Server) applySelection(ctx echo.Context, w *pages.Wizard) error {
	switch w.Step {
	case pages.StepStudent:
		w.SelectStudent(formID(ctx, "studentId"))
	case pages.StepCourse:
		w.SelectCourse(formID(ctx, "courseId"))
	case pages.StepLevelGroup:
		levelID, groupID := formID(ctx, "levelId"), formID(ctx, "groupId")
		var periodID int64
		if groupID != 0 {
			grp, err := s.Services.Groups.GetByID(ctx.Request().Context(), groupID)
			if err != nil {
				return err
			}
			periodID = grp.AcademicPeriodID
		}
		w.SelectLevelGroup(levelID, groupID, periodID)
	case pages.StepSubjects:
		params, err := ctx.FormParams()
		if err != nil {
			return err
		}
		var subjectIDs []int64
		assignments := make(map[int64]int64)
		for _, raw := range params["subjectIds"] {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				continue
			}
			subjectIDs = append(subjectIDs, id)
			if aID, err := strconv.ParseInt(params.Get(assignmentFieldPrefix+raw), 10, 64); err == nil && aID > 0 {
				assignments[id] = aID
			}
		}
		w.SelectSubjects(subjectIDs, assignments)
		w.SetEnrollmentDate(ctx.FormValue("enrollmentDate"))
	}
	return nil
}

func formID(ctx echo.Context, name string) int64 {
	id, err := strconv.ParseInt(ctx.FormValue(name), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

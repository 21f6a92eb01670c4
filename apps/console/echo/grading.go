package echoconsole

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/academic"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/course"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/grading"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/pages"
)

// gridSelector is the group and subject picker shared by the grade and attendance sheets.
type gridSelector struct {
	Groups    []option
	Subjects  []option
	GroupID   int64
	SubjectID int64
	Date      string // attendance only
}

func (g gridSelector) Selected() bool {
	return g.GroupID != 0 && g.SubjectID != 0
}

func (s *Server) loadGridSelector(ctx context.Context, groupID, subjectID int64) (gridSelector, error) {
	sel := gridSelector{GroupID: groupID, SubjectID: subjectID}

	groups, err := firstPage[course.Group](ctx, s.Services.Groups, core.Ordering{Field: "name", Ascending: true})
	if err != nil {
		return sel, err
	}
	for _, g := range groups {
		if g.Active {
			sel.Groups = append(sel.Groups, idOption(g.ID, g.Name+" / "+g.CourseName+" / "+g.PeriodName))
		}
	}

	subjects, err := firstPage[academic.Subject](ctx, s.Services.Subjects, core.Ordering{Field: "code", Ascending: true})
	if err != nil {
		return sel, err
	}
	for _, sub := range subjects {
		sel.Subjects = append(sel.Subjects, idOption(sub.ID, sub.Code+" "+sub.Name))
	}
	return sel, nil
}

func queryID(ctx echo.Context, name string) int64 {
	id, err := strconv.ParseInt(ctx.QueryParam(name), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func gridURL(path string, groupID, subjectID int64, extra url.Values) string {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("groupId", strconv.FormatInt(groupID, 10))
	q.Set("subjectId", strconv.FormatInt(subjectID, 10))
	return path + "?" + q.Encode()
}

// ==== grades

type gradeCell struct {
	Name    string
	Value   string
	Invalid bool
}

type gradePeriod struct {
	Cells      []gradeCell
	Average    float64
	HasAverage bool
}

type gradeRow struct {
	Student  string
	Periods  []gradePeriod
	Final    float64
	HasFinal bool
	Passing  bool
	Dirty    bool
}

type gradesData struct {
	Grid       gridSelector
	Periods    []int
	Components []grading.Component
	Rows       []gradeRow
	Changes    int
}

func gradeCellName(subjectEnrollmentID int64, period int, component grading.Component) string {
	return fmt.Sprintf("g-%d-%d-%s", subjectEnrollmentID, period, component)
}

func (s *Server) newGradebook() *pages.Gradebook {
	return pages.NewGradebook(s.pageDeps(), s.Services.Enrollments, s.Services.Grades)
}

func (s *Server) gradesPage(ctx echo.Context) error {
	gb := s.newGradebook()
	if err := gb.Load(ctx.Request().Context(), queryID(ctx, "groupId"), queryID(ctx, "subjectId")); err != nil {
		return err
	}
	return s.renderGrades(ctx, http.StatusOK, gb, nil)
}

// saveGrades applies every posted cell on top of a fresh load and saves what changed.
func (s *Server) saveGrades(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	gb := s.newGradebook()
	if err := gb.Load(reqCtx, formID(ctx, "groupId"), formID(ctx, "subjectId")); err != nil {
		return err
	}

	invalid := make(map[string]bool)
	for _, row := range gb.Rows {
		for _, p := range grading.Periods {
			for _, c := range grading.Components {
				name := gradeCellName(row.SubjectEnrollmentID, p, c)
				raw := strings.TrimSpace(strings.Replace(ctx.FormValue(name), ",", ".", 1))
				if raw == "" {
					continue
				}
				value, err := strconv.ParseFloat(raw, 64)
				if err == nil {
					err = gb.Set(row.SubjectEnrollmentID, p, c, value)
				}
				if err != nil {
					invalid[name] = true
				}
			}
		}
	}
	if len(invalid) > 0 {
		s.toaster.Warn(fmt.Sprintf("%d grade(s) are not numbers between %.0f and %.0f.", len(invalid), grading.MinGrade, grading.MaxGrade))
		return s.renderGrades(ctx, http.StatusUnprocessableEntity, gb, invalid)
	}

	if _, err := gb.Save(reqCtx); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, gridURL(gradesRoute.Path, gb.GroupID, gb.SubjectID, nil))
}

func (s *Server) renderGrades(ctx echo.Context, code int, gb *pages.Gradebook, invalid map[string]bool) error {
	sel, err := s.loadGridSelector(ctx.Request().Context(), gb.GroupID, gb.SubjectID)
	if err != nil {
		return err
	}
	data := gradesData{Grid: sel, Periods: grading.Periods, Components: grading.Components, Changes: gb.Changes()}
	for _, row := range gb.Rows {
		view := gradeRow{Student: row.StudentName, Passing: row.Passing(), Dirty: row.Dirty()}
		view.Final, view.HasFinal = row.FinalAverage()
		for _, p := range grading.Periods {
			period := gradePeriod{}
			period.Average, period.HasAverage = row.PeriodAverage(p)
			for _, c := range grading.Components {
				name := gradeCellName(row.SubjectEnrollmentID, p, c)
				cell := gradeCell{Name: name, Invalid: invalid[name]}
				if cell.Invalid {
					cell.Value = ctx.FormValue(name)
				} else if v, ok := row.Value(p, c); ok {
					cell.Value = strconv.FormatFloat(v, 'f', 2, 64)
				}
				period.Cells = append(period.Cells, cell)
			}
			view.Periods = append(view.Periods, period)
		}
		data.Rows = append(data.Rows, view)
	}
	return s.render(ctx, code, "grades", gradesRoute.Title, data)
}

// ==== attendance

type attendanceRow struct {
	Student    string
	Name       string
	Status     grading.Status
	Summary    grading.AttendanceSummary
	Percentage float64
	Dirty      bool
}

type attendanceData struct {
	Grid     gridSelector
	Statuses []grading.Status
	Rows     []attendanceRow
}

func attendanceFieldName(subjectEnrollmentID int64) string {
	return "a-" + strconv.FormatInt(subjectEnrollmentID, 10)
}

func (s *Server) newRegister() *pages.Register {
	return pages.NewRegister(s.pageDeps(), s.Services.Enrollments, s.Services.Attendance)
}

// sessionDate parses a yyyy-mm-dd date, falling back to today.
func sessionDate(raw string) core.Date {
	date, err := core.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return core.Today()
	}
	return date
}

func (s *Server) attendancePage(ctx echo.Context) error {
	rg := s.newRegister()
	date := sessionDate(ctx.QueryParam("date"))
	if err := rg.Load(ctx.Request().Context(), queryID(ctx, "groupId"), queryID(ctx, "subjectId"), date); err != nil {
		return err
	}
	return s.renderAttendance(ctx, http.StatusOK, rg)
}

func (s *Server) saveAttendance(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	rg := s.newRegister()
	if err := rg.Load(reqCtx, formID(ctx, "groupId"), formID(ctx, "subjectId"), sessionDate(ctx.FormValue("date"))); err != nil {
		return err
	}

	if all := grading.Status(ctx.FormValue("markAll")); all != "" {
		if err := rg.MarkAll(all); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	} else {
		for _, row := range rg.Rows {
			status := grading.Status(ctx.FormValue(attendanceFieldName(row.SubjectEnrollmentID)))
			if status == "" {
				continue
			}
			if err := rg.Mark(row.SubjectEnrollmentID, status); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
		}
	}

	if _, err := rg.Save(reqCtx); err != nil {
		return err
	}
	extra := url.Values{"date": {rg.Date.String()}}
	return ctx.Redirect(http.StatusSeeOther, gridURL(attendanceRoute.Path, rg.GroupID, rg.SubjectID, extra))
}

func (s *Server) renderAttendance(ctx echo.Context, code int, rg *pages.Register) error {
	sel, err := s.loadGridSelector(ctx.Request().Context(), rg.GroupID, rg.SubjectID)
	if err != nil {
		return err
	}
	sel.Date = rg.Date.String()
	data := attendanceData{Grid: sel, Statuses: grading.Statuses}
	for _, row := range rg.Rows {
		status, _ := row.Status()
		data.Rows = append(data.Rows, attendanceRow{
			Student:    row.StudentName,
			Name:       attendanceFieldName(row.SubjectEnrollmentID),
			Status:     status,
			Summary:    row.Summary(),
			Percentage: row.Percentage(),
			Dirty:      row.Dirty(),
		})
	}
	return s.render(ctx, code, "attendance", attendanceRoute.Title, data)
}

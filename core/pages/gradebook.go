package pages

import (
	"context"
	"fmt"
	"math"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/grading"
)

// GradeStore is the grade surface the gradebook drives. grading.GradeService implements it.
type GradeStore interface {
	BySubjectEnrollment(ctx context.Context, subjectEnrollmentID int64) ([]grading.Grade, error)
	Create(ctx context.Context, in grading.GradeInput) (grading.Grade, error)
	Update(ctx context.Context, id int64, in grading.GradeInput) (grading.Grade, error)
}

type cellKey struct {
	Period    int
	Component grading.Component
}

// GradeRow is one student's grades for the selected subject.
type GradeRow struct {
	RosterEntry
	loaded map[cellKey]grading.Grade
	edits  map[cellKey]float64
}

// Value is the edited value of a cell, falling back to the loaded one.
func (r *GradeRow) Value(period int, component grading.Component) (float64, bool) {
	key := cellKey{period, component}
	if v, ok := r.edits[key]; ok {
		return v, true
	}
	if g, ok := r.loaded[key]; ok {
		return g.Value, true
	}
	return 0, false
}

func (r *GradeRow) grades() []grading.Grade {
	var grades []grading.Grade
	for _, p := range grading.Periods {
		for _, c := range grading.Components {
			if v, ok := r.Value(p, c); ok {
				grades = append(grades, grading.Grade{Period: p, Component: c, Value: v})
			}
		}
	}
	return grades
}

func (r *GradeRow) PeriodAverage(period int) (float64, bool) {
	return grading.PeriodAverage(r.grades(), period)
}

func (r *GradeRow) FinalAverage() (float64, bool) {
	return grading.FinalAverage(r.grades())
}

// Passing reports whether the final average reaches the passing grade.
func (r *GradeRow) Passing() bool {
	avg, ok := r.FinalAverage()
	return ok && avg >= grading.PassingGrade
}

// Dirty reports whether the row has unsaved edits.
func (r *GradeRow) Dirty() bool {
	return len(r.edits) > 0
}

// Gradebook is the editable grade grid of one group and subject.
type Gradebook struct {
	Deps
	lookup EnrollmentLookup
	grades GradeStore

	GroupID   int64
	SubjectID int64
	Rows      []*GradeRow
}

func NewGradebook(deps Deps, lookup EnrollmentLookup, grades GradeStore) *Gradebook {
	return &Gradebook{Deps: deps, lookup: lookup, grades: grades}
}

// Load builds the grid for the students of groupID enrolled in subjectID. Pending edits are dropped.
func (gb *Gradebook) Load(ctx context.Context, groupID, subjectID int64) error {
	gb.GroupID, gb.SubjectID = groupID, subjectID
	gb.Rows = nil
	if groupID == 0 || subjectID == 0 {
		return nil
	}

	roster, err := loadRoster(ctx, gb.lookup, groupID, subjectID)
	if err != nil {
		return failWith(gb.Deps, "loading grade roster", err)
	}

	rows := make([]*GradeRow, 0, len(roster))
	for _, entry := range roster {
		grades, err := gb.grades.BySubjectEnrollment(ctx, entry.SubjectEnrollmentID)
		if err != nil {
			return failWith(gb.Deps, "loading grades", err)
		}
		row := &GradeRow{RosterEntry: entry, loaded: make(map[cellKey]grading.Grade, len(grades)), edits: map[cellKey]float64{}}
		for _, g := range grades {
			row.loaded[cellKey{g.Period, g.Component}] = g
		}
		rows = append(rows, row)
	}
	gb.Rows = rows
	return nil
}

func (gb *Gradebook) Row(subjectEnrollmentID int64) (*GradeRow, bool) {
	for _, r := range gb.Rows {
		if r.SubjectEnrollmentID == subjectEnrollmentID {
			return r, true
		}
	}
	return nil, false
}

// Set records an edit. NaN and values outside [0, 5] are rejected; setting the loaded value back drops the edit.
func (gb *Gradebook) Set(subjectEnrollmentID int64, period int, component grading.Component, value float64) error {
	row, ok := gb.Row(subjectEnrollmentID)
	if !ok {
		return fmt.Errorf("subject enrollment %d is not in the grid", subjectEnrollmentID)
	}
	if !validPeriod(period) {
		return fmt.Errorf("period %d is out of range", period)
	}
	if !validComponent(component) {
		return fmt.Errorf("unknown component %q", component)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < grading.MinGrade || value > grading.MaxGrade {
		return fmt.Errorf("grade must be between %.1f and %.1f", grading.MinGrade, grading.MaxGrade)
	}

	key := cellKey{period, component}
	value = core.Round2(value)
	if g, ok := row.loaded[key]; ok && g.Value == value {
		delete(row.edits, key)
		return nil
	}
	row.edits[key] = value
	return nil
}

// Changes counts the cells that Save would send.
func (gb *Gradebook) Changes() int {
	var n int
	for _, r := range gb.Rows {
		n += len(r.edits)
	}
	return n
}

// Save sends one request per edited cell: a create when the cell had no grade, an update otherwise.
// Failed cells keep their edit so a later Save retries them.
func (gb *Gradebook) Save(ctx context.Context) (SaveReport, error) {
	var report SaveReport
	var lastErr error
	for _, row := range gb.Rows {
		for _, key := range sortedCells(row.edits) {
			in := grading.GradeInput{
				SubjectEnrollmentID: row.SubjectEnrollmentID,
				Period:              key.Period,
				Component:           key.Component,
				Value:               row.edits[key],
			}

			var saved grading.Grade
			var err error
			existing, exists := row.loaded[key]
			if exists {
				in.Observations = existing.Observations
				saved, err = gb.grades.Update(ctx, existing.ID, in)
			} else {
				saved, err = gb.grades.Create(ctx, in)
			}
			if err != nil {
				report.Failed++
				lastErr = err
				gb.Logger.Error("saving grade", err, map[string]interface{}{"subjectEnrollmentId": row.SubjectEnrollmentID})
				continue
			}
			if exists {
				report.Updated++
			} else {
				report.Created++
			}
			saved.Period, saved.Component, saved.Value = key.Period, key.Component, in.Value
			row.loaded[key] = saved
			delete(row.edits, key)
		}
	}
	return report, reportSave(gb.Deps, "grade", report, lastErr)
}

func reportSave(deps Deps, what string, report SaveReport, lastErr error) error {
	switch {
	case report.Total() == 0:
		deps.Toaster.Info("No changes to save.")
	case report.Failed == 0:
		deps.Toaster.Success(fmt.Sprintf("%d %s record(s) saved.", report.Created+report.Updated, what))
	default:
		if api.IsUnauthorized(lastErr) {
			return lastErr
		}
		deps.Toaster.Error(fmt.Sprintf("%d of %d %s record(s) could not be saved: %s",
			report.Failed, report.Total(), what, FriendlyMessage(lastErr)))
	}
	return nil
}

func sortedCells(edits map[cellKey]float64) []cellKey {
	keys := make([]cellKey, 0, len(edits))
	for _, p := range grading.Periods {
		for _, c := range grading.Components {
			if _, ok := edits[cellKey{p, c}]; ok {
				keys = append(keys, cellKey{p, c})
			}
		}
	}
	return keys
}

func validPeriod(period int) bool {
	for _, p := range grading.Periods {
		if p == period {
			return true
		}
	}
	return false
}

func validComponent(component grading.Component) bool {
	for _, c := range grading.Components {
		if c == component {
			return true
		}
	}
	return false
}

package pages

import (
	"context"
	"fmt"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/grading"
)

// AttendanceStore is the attendance surface the register drives. grading.AttendanceService implements it.
type AttendanceStore interface {
	BySubjectEnrollment(ctx context.Context, subjectEnrollmentID int64) ([]grading.Attendance, error)
	Create(ctx context.Context, in grading.AttendanceInput) (grading.Attendance, error)
	Update(ctx context.Context, id int64, in grading.AttendanceInput) (grading.Attendance, error)
}

// AttendanceRow is one student's attendance for the selected subject.
type AttendanceRow struct {
	RosterEntry
	history []grading.Attendance
	loaded  *grading.Attendance // record of the selected session date
	edit    grading.Status
}

// Status is the edited status for the session date, falling back to the loaded one.
func (r *AttendanceRow) Status() (grading.Status, bool) {
	if r.edit != "" {
		return r.edit, true
	}
	if r.loaded != nil {
		return r.loaded.Status, true
	}
	return "", false
}

func (r *AttendanceRow) Dirty() bool {
	return r.edit != ""
}

// Summary covers every recorded session, counting the pending edit.
func (r *AttendanceRow) Summary() grading.AttendanceSummary {
	records := make([]grading.Attendance, 0, len(r.history)+1)
	for _, a := range r.history {
		if r.loaded != nil && a.ID == r.loaded.ID && r.edit != "" {
			continue
		}
		records = append(records, a)
	}
	if r.edit != "" {
		records = append(records, grading.Attendance{Status: r.edit})
	}
	return grading.Summarize(records)
}

func (r *AttendanceRow) Percentage() float64 {
	return r.Summary().Percentage()
}

// Register is the attendance sheet of one group, subject and session date.
type Register struct {
	Deps
	lookup  EnrollmentLookup
	records AttendanceStore

	GroupID   int64
	SubjectID int64
	Date      core.Date
	Rows      []*AttendanceRow
}

func NewRegister(deps Deps, lookup EnrollmentLookup, records AttendanceStore) *Register {
	return &Register{Deps: deps, lookup: lookup, records: records, Date: core.Today()}
}

// Load builds the sheet. A zero date means today. Pending edits are dropped.
func (rg *Register) Load(ctx context.Context, groupID, subjectID int64, date core.Date) error {
	if date.IsZero() {
		date = core.Today()
	}
	rg.GroupID, rg.SubjectID, rg.Date = groupID, subjectID, date
	rg.Rows = nil
	if groupID == 0 || subjectID == 0 {
		return nil
	}

	roster, err := loadRoster(ctx, rg.lookup, groupID, subjectID)
	if err != nil {
		return failWith(rg.Deps, "loading attendance roster", err)
	}

	rows := make([]*AttendanceRow, 0, len(roster))
	for _, entry := range roster {
		history, err := rg.records.BySubjectEnrollment(ctx, entry.SubjectEnrollmentID)
		if err != nil {
			return failWith(rg.Deps, "loading attendance", err)
		}
		row := &AttendanceRow{RosterEntry: entry, history: history}
		row.loaded = sessionRecord(history, date)
		rows = append(rows, row)
	}
	rg.Rows = rows
	return nil
}

// SetDate moves the sheet to another session date, keeping the loaded history.
func (rg *Register) SetDate(date core.Date) {
	if date.IsZero() {
		date = core.Today()
	}
	rg.Date = date
	for _, row := range rg.Rows {
		row.loaded = sessionRecord(row.history, date)
		row.edit = ""
	}
}

func sessionRecord(history []grading.Attendance, date core.Date) *grading.Attendance {
	for i := range history {
		if history[i].SessionDate.String() == date.String() {
			return &history[i]
		}
	}
	return nil
}

func (rg *Register) Row(subjectEnrollmentID int64) (*AttendanceRow, bool) {
	for _, r := range rg.Rows {
		if r.SubjectEnrollmentID == subjectEnrollmentID {
			return r, true
		}
	}
	return nil, false
}

// Mark records an edit; marking the loaded status back drops it.
func (rg *Register) Mark(subjectEnrollmentID int64, status grading.Status) error {
	row, ok := rg.Row(subjectEnrollmentID)
	if !ok {
		return fmt.Errorf("subject enrollment %d is not in the register", subjectEnrollmentID)
	}
	if !validStatus(status) {
		return fmt.Errorf("unknown attendance status %q", status)
	}
	if row.loaded != nil && row.loaded.Status == status {
		row.edit = ""
		return nil
	}
	row.edit = status
	return nil
}

// MarkAll sets every row to status.
func (rg *Register) MarkAll(status grading.Status) error {
	for _, row := range rg.Rows {
		if err := rg.Mark(row.SubjectEnrollmentID, status); err != nil {
			return err
		}
	}
	return nil
}

func (rg *Register) Changes() int {
	var n int
	for _, r := range rg.Rows {
		if r.Dirty() {
			n++
		}
	}
	return n
}

// Save sends one request per edited row: a create when the date had no record, an update otherwise.
func (rg *Register) Save(ctx context.Context) (SaveReport, error) {
	var report SaveReport
	var lastErr error
	for _, row := range rg.Rows {
		if !row.Dirty() {
			continue
		}
		in := grading.AttendanceInput{
			SubjectEnrollmentID: row.SubjectEnrollmentID,
			SessionDate:         rg.Date.String(),
			Status:              row.edit,
		}

		var saved grading.Attendance
		var err error
		exists := row.loaded != nil
		if exists {
			in.Notes = row.loaded.Notes
			saved, err = rg.records.Update(ctx, row.loaded.ID, in)
		} else {
			saved, err = rg.records.Create(ctx, in)
		}
		if err != nil {
			report.Failed++
			lastErr = err
			rg.Logger.Error("saving attendance", err, map[string]interface{}{"subjectEnrollmentId": row.SubjectEnrollmentID})
			continue
		}
		if exists {
			report.Updated++
		} else {
			report.Created++
		}

		saved.SessionDate, saved.Status = rg.Date, row.edit
		if exists {
			*row.loaded = saved
		} else {
			row.history = append(row.history, saved)
			row.loaded = &row.history[len(row.history)-1]
		}
		row.edit = ""
	}
	return report, reportSave(rg.Deps, "attendance", report, lastErr)
}

func validStatus(status grading.Status) bool {
	for _, s := range grading.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

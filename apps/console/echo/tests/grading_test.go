package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/academic"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/course"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/enrollment"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/grading"
	"github.com/lgoenaga/front-gea-cesde-sub000/tests"
)

// seedGroup registers group 4 with two students taking subject 10.
func seedGroup(b *testutil.Backend) {
	b.Reply(http.MethodGet, "/course-groups", http.StatusOK, testutil.Page(1, 100, []course.Group{{ID: 4, Name: "SIS-1A", CourseName: "Software Development", PeriodName: "2024-1", Active: true}}))
	b.Reply(http.MethodGet, "/subjects", http.StatusOK, testutil.Page(1, 100, []academic.Subject{{ID: 10, Code: "PRG1", Name: "Programming I"}}))
	b.Reply(http.MethodGet, "/level-enrollments/group/4", http.StatusOK, []enrollment.LevelEnrollment{
		{ID: 1, StudentID: 101, StudentName: "Zapata, Luisa"},
		{ID: 2, StudentID: 102, StudentName: "Alvarez, Juan"},
	})
	b.Reply(http.MethodGet, "/subject-enrollments/level-enrollment/1", http.StatusOK, []enrollment.SubjectEnrollment{{ID: 11, SubjectID: 10}})
	b.Reply(http.MethodGet, "/subject-enrollments/level-enrollment/2", http.StatusOK, []enrollment.SubjectEnrollment{{ID: 21, SubjectID: 10}})
}

func TestGrades(t *testing.T) {
	c := setup(t)
	c.signIn(t, professor)
	seedGroup(c.backend)
	c.backend.Reply(http.MethodGet, "/grades/subject-enrollment/11", http.StatusOK, []grading.Grade{
		{ID: 500, SubjectEnrollmentID: 11, Period: 1, Component: grading.Knowledge, Value: 4},
		{ID: 501, SubjectEnrollmentID: 11, Period: 1, Component: grading.Performance, Value: 3},
	})
	c.backend.Reply(http.MethodGet, "/grades/subject-enrollment/21", http.StatusOK, []grading.Grade{})
	c.backend.Reply(http.MethodPut, "/grades/500", http.StatusOK, grading.Grade{ID: 500})
	c.backend.Reply(http.MethodPost, "/grades", http.StatusCreated, grading.Grade{ID: 502})

	rec := c.get("/grades")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SIS-1A / Software Development / 2024-1")
	assert.Equal(t, 0, c.backend.Count(http.MethodGet, "/level-enrollments/group/4"), "nothing selected yet")

	rec = c.get("/grades?groupId=4&subjectId=10")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="g-11-1-KNOWLEDGE" value="4.00"`)
	assert.Contains(t, body, "3.50", "period average")
	assert.Contains(t, body, "Alvarez, Juan")

	rec = c.post("/grades", url.Values{
		"groupId":            {"4"},
		"subjectId":          {"10"},
		"g-11-1-KNOWLEDGE":   {"4,5"},
		"g-11-1-PERFORMANCE": {"3.00"},
		"g-21-2-PRODUCT":     {"2"},
		"g-21-3-PERFORMANCE": {""},
		"g-99-1-KNOWLEDGE":   {"5"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/grades?groupId=4&subjectId=10", location(rec))

	var updated grading.GradeInput
	c.backend.Calls(http.MethodPut, "/grades/500")[0].Decode(t, &updated)
	assert.Equal(t, 4.5, updated.Value)
	var created grading.GradeInput
	c.backend.Calls(http.MethodPost, "/grades")[0].Decode(t, &created)
	assert.Equal(t, grading.GradeInput{SubjectEnrollmentID: 21, Period: 2, Component: grading.Product, Value: 2}, created)
	assert.Equal(t, 0, c.backend.Count(http.MethodPut, "/grades/501"), "unchanged cells are not sent")

	rec = c.get("/grades?groupId=4&subjectId=10")
	assert.Contains(t, rec.Body.String(), "2 grade record(s) saved.")
}

func TestGrades_invalid(t *testing.T) {
	c := setup(t)
	c.signIn(t, coordinator)
	seedGroup(c.backend)
	c.backend.Reply(http.MethodGet, "/grades/subject-enrollment/11", http.StatusOK, []grading.Grade{})
	c.backend.Reply(http.MethodGet, "/grades/subject-enrollment/21", http.StatusOK, []grading.Grade{})

	rec := c.post("/grades", url.Values{
		"groupId":          {"4"},
		"subjectId":        {"10"},
		"g-11-1-KNOWLEDGE": {"7"},
		"g-21-1-KNOWLEDGE": {"abc"},
		"g-21-1-PRODUCT":   {"4"},
		"g-11-2-PRODUCT":   {"NaN"},
		"g-11-3-PRODUCT":   {"+Inf"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "4 grade(s) are not numbers between 0 and 5.")
	assert.Contains(t, body, `name="g-21-1-KNOWLEDGE" value="abc" min="0" max="5" step="0.01" class="invalid"`)
	assert.Contains(t, body, `name="g-11-2-PRODUCT" value="NaN" min="0" max="5" step="0.01" class="invalid"`)
	assert.Contains(t, body, `name="g-21-1-PRODUCT" value="4.00"`, "valid edits are kept")
	assert.Equal(t, 0, c.backend.Count(http.MethodPost, "/grades"))
}

func TestAttendance(t *testing.T) {
	c := setup(t)
	c.signIn(t, professor)
	seedGroup(c.backend)
	c.backend.Reply(http.MethodGet, "/attendance/subject-enrollment/11", http.StatusOK, []grading.Attendance{
		{ID: 700, SubjectEnrollmentID: 11, SessionDate: mustDate(t, "2024-03-01"), Status: grading.Present},
		{ID: 701, SubjectEnrollmentID: 11, SessionDate: mustDate(t, "2024-03-04"), Status: grading.Absent},
	})
	c.backend.Reply(http.MethodGet, "/attendance/subject-enrollment/21", http.StatusOK, []grading.Attendance{})
	c.backend.Reply(http.MethodPut, "/attendance/701", http.StatusOK, grading.Attendance{ID: 701})
	c.backend.Reply(http.MethodPost, "/attendance", http.StatusCreated, grading.Attendance{ID: 702})

	rec := c.get("/attendance?groupId=4&subjectId=10&date=2024-03-04")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="a-11" value="ABSENT" checked`)
	assert.Contains(t, body, "50.0%")

	tests := []struct {
		name        string
		form        url.Values
		wantCreated int
		wantUpdated int
	}{
		{
			name:        "one student",
			form:        url.Values{"a-21": {"LATE"}, "a-11": {"ABSENT"}},
			wantCreated: 1,
		},
		{
			name:        "mark all",
			form:        url.Values{"markAll": {"PRESENT"}},
			wantCreated: 1,
			wantUpdated: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postsBefore := c.backend.Count(http.MethodPost, "/attendance")
			putsBefore := c.backend.Count(http.MethodPut, "/attendance/701")

			form := url.Values{"groupId": {"4"}, "subjectId": {"10"}, "date": {"2024-03-04"}}
			for k, v := range tt.form {
				form[k] = v
			}
			rec := c.post("/attendance", form)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/attendance?date=2024-03-04&groupId=4&subjectId=10", location(rec))
			assert.Equal(t, tt.wantCreated, c.backend.Count(http.MethodPost, "/attendance")-postsBefore)
			assert.Equal(t, tt.wantUpdated, c.backend.Count(http.MethodPut, "/attendance/701")-putsBefore)
		})
	}

	assert.Equal(t, http.StatusBadRequest, c.post("/attendance", url.Values{
		"groupId": {"4"}, "subjectId": {"10"}, "a-11": {"SICK"},
	}).Code)
}

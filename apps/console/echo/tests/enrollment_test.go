package tests

import (
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/academic"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/course"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/enrollment"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/person"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/student"
	"github.com/lgoenaga/front-gea-cesde-sub000/tests"
)

func seedEnrollmentBackend(b *testutil.Backend) {
	b.Reply(http.MethodGet, "/students", http.StatusOK, testutil.Page(1, 10, []student.Student{
		{Person: person.Person{ID: 5, DocumentType: "CC", DocumentNumber: "1017223344", FirstName: "Luisa", LastName: "Zapata", Active: true}},
	}))
	b.Reply(http.MethodGet, "/students/search", http.StatusOK, testutil.Page(1, 10, []student.Student{
		{Person: person.Person{ID: 5, DocumentType: "CC", DocumentNumber: "1017223344", FirstName: "Luisa", LastName: "Zapata", Active: true}},
	}))
	b.Reply(http.MethodGet, "/courses/active", http.StatusOK, []course.Course{{ID: 2, Code: "SIS", Name: "Software Development", Active: true}})
	b.Reply(http.MethodGet, "/levels/course/2", http.StatusOK, []academic.Level{{ID: 3, CourseID: 2, LevelNumber: 1, Name: "Fundamentals"}})
	b.Reply(http.MethodGet, "/course-groups/course/2", http.StatusOK, []course.Group{{ID: 4, Name: "SIS-1A", Shift: course.ShiftMorning, CourseID: 2, AcademicPeriodID: 9, PeriodName: "2024-1", Active: true}})
	b.Reply(http.MethodGet, "/course-groups/4", http.StatusOK, course.Group{ID: 4, Name: "SIS-1A", CourseID: 2, AcademicPeriodID: 9, Active: true})
	b.Reply(http.MethodGet, "/subjects/level/3", http.StatusOK, []academic.Subject{
		{ID: 10, Code: "PRG1", Name: "Programming I", LevelID: 3},
		{ID: 11, Code: "DB1", Name: "Databases I", LevelID: 3},
	})
	b.Reply(http.MethodGet, "/subject-assignments/subject/10/period/9", http.StatusOK, []academic.Assignment{
		{ID: 70, SubjectID: 10, ProfessorID: 20, ProfessorName: "Jorge Gomez", AcademicPeriodID: 9, Active: true},
	})
	b.Reply(http.MethodGet, "/subject-assignments/subject/11/period/9", http.StatusOK, []academic.Assignment{})

	b.Reply(http.MethodPost, "/course-enrollments", http.StatusCreated, enrollment.CourseEnrollment{ID: 50})
	b.Reply(http.MethodPost, "/level-enrollments", http.StatusCreated, enrollment.LevelEnrollment{ID: 60})
	var nextID int64 = 80
	b.Handle(http.MethodPost, "/subject-enrollments", func(w http.ResponseWriter, r *http.Request) {
		var ne enrollment.NewSubjectEnrollment
		_ = decodeJSON(r, &ne)
		testutil.WriteData(w, http.StatusCreated, enrollment.SubjectEnrollment{
			ID:                  atomic.AddInt64(&nextID, 1),
			LevelEnrollmentID:   ne.LevelEnrollmentID,
			SubjectID:           ne.SubjectID,
			SubjectAssignmentID: ne.SubjectAssignmentID,
		})
	})
	b.Reply(http.MethodGet, "/course-enrollments", http.StatusOK, testutil.Page(0, 10, []enrollment.CourseEnrollment{}))
}

func TestEnrollmentWizard(t *testing.T) {
	c := setup(t)
	c.signIn(t, coordinator)
	seedEnrollmentBackend(c.backend)

	step := func(form url.Values) {
		t.Helper()
		rec := c.post("/enrollments/new", form)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/enrollments/new", location(rec))
	}

	step(url.Values{"action": {"next"}})
	rec := c.get("/enrollments/new?q=zapata")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Make a selection before continuing.")
	assert.Contains(t, rec.Body.String(), "Luisa Zapata (CC 1017223344)")
	assert.Contains(t, c.backend.Calls(http.MethodGet, "/students/search")[0].Query, "term=zapata")

	step(url.Values{"action": {"next"}, "studentId": {"5"}})
	rec = c.get("/enrollments/new")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Software Development")

	step(url.Values{"action": {"next"}, "courseId": {"2"}})
	rec = c.get("/enrollments/new")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SIS-1A")
	assert.Contains(t, rec.Body.String(), "Fundamentals")

	step(url.Values{"action": {"next"}, "levelId": {"3"}, "groupId": {"4"}})
	rec = c.get("/enrollments/new")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Jorge Gomez")
	assert.Contains(t, body, `name="assignment-10" value="70"`)
	assert.Contains(t, body, "No professor assigned")

	rec = c.post("/enrollments/new", url.Values{
		"action":         {"submit"},
		"subjectIds":     {"10", "11"},
		"assignment-10":  {"70"},
		"enrollmentDate": {"2024-02-05"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/course-enrollments", location(rec))

	var ce enrollment.NewCourseEnrollment
	c.backend.Calls(http.MethodPost, "/course-enrollments")[0].Decode(t, &ce)
	assert.Equal(t, enrollment.NewCourseEnrollment{StudentID: 5, CourseID: 2, EnrollmentDate: "2024-02-05", Status: enrollment.StatusActive}, ce)

	var le enrollment.NewLevelEnrollment
	c.backend.Calls(http.MethodPost, "/level-enrollments")[0].Decode(t, &le)
	assert.Equal(t, int64(50), le.CourseEnrollmentID)
	assert.Equal(t, int64(4), le.GroupID)

	calls := c.backend.Calls(http.MethodPost, "/subject-enrollments")
	require.Len(t, calls, 2)
	assignments := map[int64]null.Int64{}
	for _, call := range calls {
		var se enrollment.NewSubjectEnrollment
		call.Decode(t, &se)
		assignments[se.SubjectID] = se.SubjectAssignmentID
	}
	assert.Equal(t, map[int64]null.Int64{10: null.Int64From(70), 11: {}}, assignments)

	rec = c.get("/course-enrollments")
	assert.Contains(t, rec.Body.String(), "Enrollment completed with pending assignments: 1 of 2 subject(s) have an assigned professor.")

	rec = c.get("/enrollments/new?q=x")
	assert.Contains(t, rec.Body.String(), `name="studentId"`, "the wizard starts over")
}

func TestEnrollmentWizard_invalidSubjects(t *testing.T) {
	c := setup(t)
	c.signIn(t, coordinator)
	seedEnrollmentBackend(c.backend)

	for _, form := range []url.Values{
		{"action": {"next"}, "studentId": {"5"}},
		{"action": {"next"}, "courseId": {"2"}},
		{"action": {"next"}, "levelId": {"3"}, "groupId": {"4"}},
		{"action": {"submit"}, "enrollmentDate": {"05/02/2024"}},
	} {
		rec := c.post("/enrollments/new", form)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/enrollments/new", location(rec))
	}
	assert.Equal(t, 0, c.backend.Count(http.MethodPost, "/course-enrollments"))

	rec := c.get("/enrollments/new")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="error"`)
	assert.Contains(t, rec.Body.String(), `value="05/02/2024"`, "the selection survives")

	rec = c.post("/enrollments/new", url.Values{"action": {"previous"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = c.get("/enrollments/new")
	assert.Contains(t, rec.Body.String(), `name="levelId"`)

	assert.Equal(t, http.StatusBadRequest, c.post("/enrollments/new", url.Values{"action": {"jump"}}).Code)
}

func TestEnrollmentWizard_groupWithoutPeriod(t *testing.T) {
	c := setup(t)
	c.signIn(t, coordinator)
	seedEnrollmentBackend(c.backend)
	c.backend.Reply(http.MethodGet, "/course-groups/6", http.StatusOK, course.Group{ID: 6, Name: "SIS-1B", CourseID: 2, Active: true})

	for _, form := range []url.Values{
		{"action": {"next"}, "studentId": {"5"}},
		{"action": {"next"}, "courseId": {"2"}},
		{"action": {"next"}, "levelId": {"3"}, "groupId": {"6"}},
	} {
		rec := c.post("/enrollments/new", form)
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}

	rec := c.get("/enrollments/new")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The selected group has no academic period. Assign one before enrolling.")
	assert.Contains(t, body, `name="groupId"`, "still on the level and group step")
	assert.Equal(t, 0, c.backend.Count(http.MethodGet, "/subjects/level/3"))
}

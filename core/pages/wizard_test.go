package pages

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/enrollment"
	"github.com/lgoenaga/front-gea-cesde-sub000/tests"
)

func newWizard(t *testing.T) (*fixture, *Wizard) {
	t.Helper()
	core.NowFunc = func() time.Time { return time.Date(2024, time.February, 5, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { core.NowFunc = time.Now })

	f := newFixture(t)
	return f, NewWizard(f.deps, enrollment.NewService(f.client))
}

// advance walks the wizard to the subjects step.
func advance(t *testing.T, w *Wizard) {
	t.Helper()
	w.SelectStudent(1)
	require.True(t, w.Next())
	w.SelectCourse(2)
	require.True(t, w.Next())
	w.SelectLevelGroup(3, 4, 5)
	require.True(t, w.Next())
	require.Equal(t, StepSubjects, w.Step)
}

func TestWizard_Next(t *testing.T) {
	_, w := newWizard(t)

	assert.False(t, w.Next(), "no student selected")
	assert.Equal(t, StepStudent, w.Step)
	assert.False(t, w.Previous())

	w.SelectStudent(1)
	assert.True(t, w.Next())
	assert.False(t, w.Next(), "no course selected")

	w.SelectCourse(2)
	require.True(t, w.Next())
	w.SelectLevelGroup(3, 0, 5)
	assert.False(t, w.Next(), "level without group")
	w.SelectLevelGroup(3, 4, 0)
	assert.False(t, w.Next(), "group without academic period")

	w.SelectLevelGroup(3, 4, 5)
	w.SelectSubjects([]int64{10}, nil)
	require.True(t, w.Next())
	assert.False(t, w.Next(), "last step")

	require.True(t, w.Previous())
	require.True(t, w.Previous())
	w.SelectCourse(7)
	assert.Zero(t, w.LevelID, "changing the course clears the level")
	assert.Zero(t, w.GroupID)
	assert.Empty(t, w.SubjectIDs)
	assert.Equal(t, "2024-02-05", w.EnrollmentDate)
}

func TestWizard_Submit_invalid(t *testing.T) {
	f, w := newWizard(t)
	advance(t, w)
	w.SetEnrollmentDate("05/02/2024")

	ok, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, w.Errors, "subjects")
	assert.Contains(t, w.Errors, "enrollmentDate")
	assert.Equal(t, 0, f.backend.Total())
}

func TestWizard_Submit(t *testing.T) {
	tests := []struct {
		name          string
		assignments   map[int64]int64
		wantKind      ToastKind
		wantProfessor int
	}{
		{
			name:          "every subject has a professor",
			assignments:   map[int64]int64{10: 100, 11: 110, 12: 120},
			wantKind:      ToastSuccess,
			wantProfessor: 3,
		},
		{
			name:          "pending assignments",
			assignments:   map[int64]int64{10: 100},
			wantKind:      ToastWarn,
			wantProfessor: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, w := newWizard(t)
			f.backend.Reply(http.MethodPost, "/course-enrollments", http.StatusCreated, enrollment.CourseEnrollment{ID: 50})
			f.backend.Reply(http.MethodPost, "/level-enrollments", http.StatusCreated, enrollment.LevelEnrollment{ID: 60})
			var nextID int64 = 70
			f.backend.Handle(http.MethodPost, "/subject-enrollments", func(w http.ResponseWriter, r *http.Request) {
				var ne enrollment.NewSubjectEnrollment
				_ = jsonDecode(r, &ne)
				testutil.WriteData(w, http.StatusCreated, enrollment.SubjectEnrollment{
					ID:                  atomic.AddInt64(&nextID, 1),
					LevelEnrollmentID:   ne.LevelEnrollmentID,
					SubjectID:           ne.SubjectID,
					SubjectAssignmentID: ne.SubjectAssignmentID,
				})
			})

			advance(t, w)
			w.SelectSubjects([]int64{10, 11, 12}, tt.assignments)
			ok, err := w.Submit(context.Background())
			require.NoError(t, err)
			require.True(t, ok)

			var ce enrollment.NewCourseEnrollment
			f.backend.Calls(http.MethodPost, "/course-enrollments")[0].Decode(t, &ce)
			assert.Equal(t, enrollment.NewCourseEnrollment{StudentID: 1, CourseID: 2, EnrollmentDate: "2024-02-05", Status: enrollment.StatusActive}, ce)

			var le enrollment.NewLevelEnrollment
			f.backend.Calls(http.MethodPost, "/level-enrollments")[0].Decode(t, &le)
			assert.Equal(t, int64(50), le.CourseEnrollmentID)
			assert.Equal(t, int64(4), le.GroupID)

			calls := f.backend.Calls(http.MethodPost, "/subject-enrollments")
			require.Len(t, calls, 3)
			for _, call := range calls {
				var se enrollment.NewSubjectEnrollment
				call.Decode(t, &se)
				assert.Equal(t, int64(60), se.LevelEnrollmentID)
				if id, ok := tt.assignments[se.SubjectID]; ok {
					assert.Equal(t, null.Int64From(id), se.SubjectAssignmentID)
				} else {
					assert.False(t, se.SubjectAssignmentID.Valid)
				}
			}

			require.NotNil(t, w.Result)
			assert.Equal(t, tt.wantProfessor, w.Result.WithProfessor)
			assert.Len(t, w.Result.Subjects, 3)
			toasts := f.toasts()
			require.Len(t, toasts, 1)
			assert.Equal(t, tt.wantKind, toasts[0].Kind)

			w.Reset()
			assert.Equal(t, StepStudent, w.Step)
			assert.Nil(t, w.Result)
		})
	}
}

func TestWizard_Submit_failure(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(b *testutil.Backend)
		wantSubject int
		wantKinds   []ToastKind
	}{
		{
			name: "course tier",
			setup: func(b *testutil.Backend) {
				b.Handle(http.MethodPost, "/course-enrollments", func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusConflict)
					_, _ = w.Write([]byte(`{"success":false,"message":"x","errorCode":"ENROLLMENT_ACTIVE_EXISTS"}`))
				})
			},
			wantKinds: []ToastKind{ToastError},
		},
		{
			name: "subject tier",
			setup: func(b *testutil.Backend) {
				b.Reply(http.MethodPost, "/course-enrollments", http.StatusCreated, enrollment.CourseEnrollment{ID: 50})
				b.Reply(http.MethodPost, "/level-enrollments", http.StatusCreated, enrollment.LevelEnrollment{ID: 60})
				b.Fail(http.MethodPost, "/subject-enrollments", http.StatusBadRequest, "Subject does not belong to the level")
			},
			wantSubject: 2,
			wantKinds:   []ToastKind{ToastWarn, ToastError},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, w := newWizard(t)
			tt.setup(f.backend)
			advance(t, w)
			w.SelectSubjects([]int64{10, 11}, nil)

			ok, err := w.Submit(context.Background())
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, w.Result)
			assert.Equal(t, StepSubjects, w.Step, "the operator stays on the last step")
			assert.Equal(t, tt.wantSubject, f.backend.Count(http.MethodPost, "/subject-enrollments"))

			var kinds []ToastKind
			for _, toast := range f.toasts() {
				kinds = append(kinds, toast.Kind)
			}
			assert.Equal(t, tt.wantKinds, kinds)
		})
	}
}

package echoconsole

import (
	"context"
	"strconv"
	"strings"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/academic"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/course"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/enrollment"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/pages"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/person"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/professor"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/student"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
)

// optionPageSize bounds the records offered by a select.
const optionPageSize = 100

// plainStore hides the search endpoint of collections the API cannot search.
type plainStore[T any, F any] struct {
	pages.Store[T, F]
}

func withoutSearch[T any, F any](store pages.Store[T, F]) pages.Store[T, F] {
	return plainStore[T, F]{store}
}

type querier[T any] interface {
	Query(ctx context.Context, pr core.PageRequest) (core.Page[T], error)
}

func firstPage[T any](ctx context.Context, q querier[T], sort ...core.Ordering) ([]T, error) {
	page, err := q.Query(ctx, core.NewPageRequest(0, optionPageSize, sort...))
	return page.Content, err
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func personFields() []field {
	return []field{
		{Name: "documentType", Label: "Document type", Type: inputSelect, Required: true, Options: stringOptions(person.DocumentTypes, nil)},
		{Name: "documentNumber", Label: "Document number", Type: inputText, Required: true},
		{Name: "firstName", Label: "First name", Type: inputText, Required: true},
		{Name: "lastName", Label: "Last name", Type: inputText, Required: true},
		{Name: "email", Label: "Email", Type: inputEmail, Required: true},
		{Name: "phone", Label: "Phone", Type: inputText},
		{Name: "address", Label: "Address", Type: inputText},
	}
}

func personColumns[T any](p func(T) person.Person) []column[T] {
	return []column[T]{
		{Header: "Document", Sort: "documentNumber", Value: func(r T) string { return p(r).Document() }},
		{Header: "Name", Sort: "lastName", Value: func(r T) string { return p(r).FullName() }},
		{Header: "Email", Sort: "email", Value: func(r T) string { return p(r).Email }},
		{Header: "Phone", Value: func(r T) string { return p(r).Phone }},
		{Header: "Active", Value: func(r T) string { return yesNo(p(r).Active) }},
	}
}

func staticFields(fields ...field) func(context.Context) ([]field, error) {
	return func(context.Context) ([]field, error) { return fields, nil }
}

func (s *Server) studentsPage() entityPage[student.Student, student.Form] {
	return entityPage[student.Student, student.Form]{
		Config: pages.Config[student.Student, student.Form]{
			Entity: "student",
			Store:  s.Services.Students,
			ID:     func(st student.Student) int64 { return st.ID },
			NewForm: func() student.Form {
				return student.Form{Form: person.Form{DocumentType: person.DocCitizenID, Active: true}}
			},
			ToForm: student.FormFrom,
		},
		Columns:     personColumns(func(st student.Student) person.Person { return st.Person }),
		DefaultSort: []core.Ordering{{Field: "lastName", Ascending: true}},
		Fields: staticFields(append(personFields(),
			field{Name: "birthDate", Label: "Birth date", Type: inputDate},
			field{Name: "active", Label: "Active", Type: inputCheckbox},
		)...),
		Describe: func(st student.Student) string { return st.FullName() },
	}
}

func (s *Server) professorsPage() entityPage[professor.Professor, professor.Form] {
	return entityPage[professor.Professor, professor.Form]{
		Config: pages.Config[professor.Professor, professor.Form]{
			Entity: "professor",
			Store:  s.Services.Professors,
			ID:     func(p professor.Professor) int64 { return p.ID },
			NewForm: func() professor.Form {
				return professor.Form{Form: person.Form{DocumentType: person.DocCitizenID, Active: true}}
			},
			ToForm: professor.FormFrom,
		},
		Columns: append(personColumns(func(p professor.Professor) person.Person { return p.Person }),
			column[professor.Professor]{Header: "Specialty", Value: func(p professor.Professor) string { return p.Specialty }},
		),
		DefaultSort: []core.Ordering{{Field: "lastName", Ascending: true}},
		Fields: staticFields(append(personFields(),
			field{Name: "specialty", Label: "Specialty", Type: inputText},
			field{Name: "active", Label: "Active", Type: inputCheckbox},
		)...),
		Describe: func(p professor.Professor) string { return p.FullName() },
	}
}

func (s *Server) coursesPage() entityPage[course.Course, course.Form] {
	return entityPage[course.Course, course.Form]{
		Config: pages.Config[course.Course, course.Form]{
			Entity:  "course",
			Store:   s.Services.Courses,
			ID:      func(c course.Course) int64 { return c.ID },
			NewForm: func() course.Form { return course.Form{TotalLevels: 1, Active: true} },
			ToForm:  course.FormFrom,
		},
		Columns: []column[course.Course]{
			{Header: "Code", Sort: "code", Value: func(c course.Course) string { return c.Code }},
			{Header: "Name", Sort: "name", Value: func(c course.Course) string { return c.Name }},
			{Header: "Levels", Value: func(c course.Course) string { return strconv.Itoa(c.TotalLevels) }},
			{Header: "Active", Value: func(c course.Course) string { return yesNo(c.Active) }},
		},
		DefaultSort: []core.Ordering{{Field: "name", Ascending: true}},
		Fields: staticFields(
			field{Name: "code", Label: "Code", Type: inputText, Required: true},
			field{Name: "name", Label: "Name", Type: inputText, Required: true},
			field{Name: "description", Label: "Description", Type: inputTextArea},
			field{Name: "totalLevels", Label: "Number of levels", Type: inputNumber, Required: true, Step: "1"},
			field{Name: "active", Label: "Active", Type: inputCheckbox},
		),
		Describe: func(c course.Course) string { return c.Code + " " + c.Name },
	}
}

func (s *Server) courseOptions(ctx context.Context) ([]option, error) {
	courses, err := s.Services.Courses.Active(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(courses))
	for _, c := range courses {
		opts = append(opts, idOption(c.ID, c.Name))
	}
	return opts, nil
}

func (s *Server) periodOptions(ctx context.Context) ([]option, error) {
	periods, err := firstPage[academic.Period](ctx, s.Services.Periods, core.Ordering{Field: "startDate"})
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(periods))
	for _, p := range periods {
		label := p.Name
		if p.Active {
			label += " (active)"
		}
		opts = append(opts, idOption(p.ID, label))
	}
	return opts, nil
}

func (s *Server) levelsPage() entityPage[academic.Level, academic.LevelForm] {
	return entityPage[academic.Level, academic.LevelForm]{
		Config: pages.Config[academic.Level, academic.LevelForm]{
			Entity:  "level",
			Store:   withoutSearch[academic.Level, academic.LevelForm](s.Services.Levels),
			ID:      func(l academic.Level) int64 { return l.ID },
			NewForm: func() academic.LevelForm { return academic.LevelForm{LevelNumber: 1} },
			ToForm:  academic.LevelFormFrom,
		},
		Columns: []column[academic.Level]{
			{Header: "Course", Value: func(l academic.Level) string { return l.CourseName }},
			{Header: "Number", Sort: "levelNumber", Value: func(l academic.Level) string { return strconv.Itoa(l.LevelNumber) }},
			{Header: "Name", Sort: "name", Value: func(l academic.Level) string { return l.Name }},
		},
		DefaultSort: []core.Ordering{{Field: "levelNumber", Ascending: true}},
		Fields: func(ctx context.Context) ([]field, error) {
			courses, err := s.courseOptions(ctx)
			if err != nil {
				return nil, err
			}
			return []field{
				{Name: "courseId", Label: "Course", Type: inputSelect, Required: true, Options: courses},
				{Name: "levelNumber", Label: "Level number", Type: inputNumber, Required: true, Step: "1"},
				{Name: "name", Label: "Name", Type: inputText, Required: true},
				{Name: "description", Label: "Description", Type: inputTextArea},
			}, nil
		},
		Describe: func(l academic.Level) string { return l.CourseName + " / " + l.Name },
	}
}

func (s *Server) subjectsPage() entityPage[academic.Subject, academic.SubjectForm] {
	return entityPage[academic.Subject, academic.SubjectForm]{
		Config: pages.Config[academic.Subject, academic.SubjectForm]{
			Entity:  "subject",
			Store:   s.Services.Subjects,
			ID:      func(sub academic.Subject) int64 { return sub.ID },
			NewForm: func() academic.SubjectForm { return academic.SubjectForm{WeeklyHours: 2} },
			ToForm:  academic.SubjectFormFrom,
		},
		Columns: []column[academic.Subject]{
			{Header: "Code", Sort: "code", Value: func(sub academic.Subject) string { return sub.Code }},
			{Header: "Name", Sort: "name", Value: func(sub academic.Subject) string { return sub.Name }},
			{Header: "Level", Value: func(sub academic.Subject) string { return sub.LevelName }},
			{Header: "Weekly hours", Value: func(sub academic.Subject) string { return strconv.Itoa(sub.WeeklyHours) }},
		},
		DefaultSort: []core.Ordering{{Field: "name", Ascending: true}},
		Fields: func(ctx context.Context) ([]field, error) {
			levels, err := firstPage[academic.Level](ctx, s.Services.Levels, core.Ordering{Field: "levelNumber", Ascending: true})
			if err != nil {
				return nil, err
			}
			opts := make([]option, 0, len(levels))
			for _, l := range levels {
				opts = append(opts, idOption(l.ID, l.CourseName+" / "+l.Name))
			}
			return []field{
				{Name: "code", Label: "Code", Type: inputText, Required: true},
				{Name: "name", Label: "Name", Type: inputText, Required: true},
				{Name: "description", Label: "Description", Type: inputTextArea},
				{Name: "weeklyHours", Label: "Weekly hours", Type: inputNumber, Required: true, Step: "1"},
				{Name: "levelId", Label: "Level", Type: inputSelect, Required: true, Options: opts},
			}, nil
		},
		Describe: func(sub academic.Subject) string { return sub.Code + " " + sub.Name },
	}
}

func (s *Server) groupsPage() entityPage[course.Group, course.GroupForm] {
	return entityPage[course.Group, course.GroupForm]{
		Config: pages.Config[course.Group, course.GroupForm]{
			Entity: "course group",
			Store:  withoutSearch[course.Group, course.GroupForm](s.Services.Groups),
			ID:     func(g course.Group) int64 { return g.ID },
			NewForm: func() course.GroupForm {
				return course.GroupForm{Shift: course.ShiftMorning, Capacity: 30, Active: true}
			},
			ToForm: course.GroupFormFrom,
		},
		Columns: []column[course.Group]{
			{Header: "Name", Sort: "name", Value: func(g course.Group) string { return g.Name }},
			{Header: "Course", Value: func(g course.Group) string { return g.CourseName }},
			{Header: "Period", Value: func(g course.Group) string { return g.PeriodName }},
			{Header: "Shift", Value: func(g course.Group) string { return core.Humanize(g.Shift) }},
			{Header: "Capacity", Value: func(g course.Group) string { return strconv.Itoa(g.Capacity) }},
			{Header: "Active", Value: func(g course.Group) string { return yesNo(g.Active) }},
		},
		DefaultSort: []core.Ordering{{Field: "name", Ascending: true}},
		Fields: func(ctx context.Context) ([]field, error) {
			courses, err := s.courseOptions(ctx)
			if err != nil {
				return nil, err
			}
			periods, err := s.periodOptions(ctx)
			if err != nil {
				return nil, err
			}
			return []field{
				{Name: "name", Label: "Name", Type: inputText, Required: true},
				{Name: "shift", Label: "Shift", Type: inputSelect, Required: true, Options: stringOptions(course.Shifts, core.Humanize)},
				{Name: "capacity", Label: "Capacity", Type: inputNumber, Required: true, Step: "1"},
				{Name: "courseId", Label: "Course", Type: inputSelect, Required: true, Options: courses},
				{Name: "academicPeriodId", Label: "Academic period", Type: inputSelect, Required: true, Options: periods},
				{Name: "active", Label: "Active", Type: inputCheckbox},
			}, nil
		},
		Describe: func(g course.Group) string { return g.Name },
	}
}

func (s *Server) periodsPage() entityPage[academic.Period, academic.PeriodForm] {
	return entityPage[academic.Period, academic.PeriodForm]{
		Config: pages.Config[academic.Period, academic.PeriodForm]{
			Entity:  "academic period",
			Store:   withoutSearch[academic.Period, academic.PeriodForm](s.Services.Periods),
			ID:      func(p academic.Period) int64 { return p.ID },
			NewForm: func() academic.PeriodForm { return academic.PeriodForm{} },
			ToForm:  academic.PeriodFormFrom,
		},
		Columns: []column[academic.Period]{
			{Header: "Name", Sort: "name", Value: func(p academic.Period) string { return p.Name }},
			{Header: "Start", Sort: "startDate", Value: func(p academic.Period) string { return p.StartDate.String() }},
			{Header: "End", Sort: "endDate", Value: func(p academic.Period) string { return p.EndDate.String() }},
			{Header: "Active", Value: func(p academic.Period) string { return yesNo(p.Active) }},
		},
		DefaultSort: []core.Ordering{{Field: "startDate"}},
		Fields: staticFields(
			field{Name: "name", Label: "Name", Type: inputText, Required: true},
			field{Name: "startDate", Label: "Start date", Type: inputDate, Required: true},
			field{Name: "endDate", Label: "End date", Type: inputDate, Required: true},
			field{Name: "active", Label: "Active", Type: inputCheckbox, Help: "Only one period can be active at a time."},
		),
		Describe: func(p academic.Period) string { return p.Name },
	}
}

func (s *Server) assignmentsPage() entityPage[academic.Assignment, academic.AssignmentForm] {
	return entityPage[academic.Assignment, academic.AssignmentForm]{
		Config: pages.Config[academic.Assignment, academic.AssignmentForm]{
			Entity:  "subject assignment",
			Store:   withoutSearch[academic.Assignment, academic.AssignmentForm](s.Services.Assignments),
			ID:      func(a academic.Assignment) int64 { return a.ID },
			NewForm: func() academic.AssignmentForm { return academic.AssignmentForm{Active: true} },
			ToForm:  academic.AssignmentFormFrom,
		},
		Columns: []column[academic.Assignment]{
			{Header: "Subject", Value: func(a academic.Assignment) string { return a.SubjectName }},
			{Header: "Professor", Value: func(a academic.Assignment) string { return a.ProfessorName }},
			{Header: "Period", Value: func(a academic.Assignment) string { return a.PeriodName }},
			{Header: "Schedule", Value: func(a academic.Assignment) string { return a.Schedule }},
			{Header: "Classroom", Value: func(a academic.Assignment) string { return a.Classroom }},
			{Header: "Active", Value: func(a academic.Assignment) string { return yesNo(a.Active) }},
		},
		Fields: func(ctx context.Context) ([]field, error) {
			subjects, err := firstPage[academic.Subject](ctx, s.Services.Subjects, core.Ordering{Field: "name", Ascending: true})
			if err != nil {
				return nil, err
			}
			professors, err := s.Services.Professors.Active(ctx)
			if err != nil {
				return nil, err
			}
			periods, err := s.periodOptions(ctx)
			if err != nil {
				return nil, err
			}

			subjectOpts := make([]option, 0, len(subjects))
			for _, sub := range subjects {
				subjectOpts = append(subjectOpts, idOption(sub.ID, sub.Code+" "+sub.Name))
			}
			professorOpts := make([]option, 0, len(professors))
			for _, p := range professors {
				professorOpts = append(professorOpts, idOption(p.ID, p.FullName()))
			}
			return []field{
				{Name: "subjectId", Label: "Subject", Type: inputSelect, Required: true, Options: subjectOpts},
				{Name: "professorId", Label: "Professor", Type: inputSelect, Required: true, Options: professorOpts},
				{Name: "academicPeriodId", Label: "Academic period", Type: inputSelect, Required: true, Options: periods},
				{Name: "schedule", Label: "Schedule", Type: inputText},
				{Name: "classroom", Label: "Classroom", Type: inputText},
				{Name: "active", Label: "Active", Type: inputCheckbox},
			}, nil
		},
		Describe: func(a academic.Assignment) string { return a.SubjectName + " / " + a.ProfessorName },
	}
}

func (s *Server) courseEnrollmentsPage() entityPage[enrollment.CourseEnrollment, enrollment.NewCourseEnrollment] {
	return entityPage[enrollment.CourseEnrollment, enrollment.NewCourseEnrollment]{
		Config: pages.Config[enrollment.CourseEnrollment, enrollment.NewCourseEnrollment]{
			Entity:  "course enrollment",
			Store:   withoutSearch[enrollment.CourseEnrollment, enrollment.NewCourseEnrollment](s.Services.Enrollments.CourseEnrollments()),
			ID:      func(ce enrollment.CourseEnrollment) int64 { return ce.ID },
			NewForm: func() enrollment.NewCourseEnrollment { return enrollment.NewCourseEnrollment{} },
			ToForm: func(ce enrollment.CourseEnrollment) enrollment.NewCourseEnrollment {
				return enrollment.NewCourseEnrollment{StudentID: ce.StudentID, CourseID: ce.CourseID, EnrollmentDate: ce.EnrollmentDate.String(), Status: ce.Status}
			},
		},
		Columns: []column[enrollment.CourseEnrollment]{
			{Header: "Student", Value: func(ce enrollment.CourseEnrollment) string { return ce.StudentName }},
			{Header: "Course", Value: func(ce enrollment.CourseEnrollment) string { return ce.CourseName }},
			{Header: "Date", Sort: "enrollmentDate", Value: func(ce enrollment.CourseEnrollment) string { return ce.EnrollmentDate.String() }},
			{Header: "Status", Value: func(ce enrollment.CourseEnrollment) string { return core.Humanize(ce.Status) }},
		},
		DefaultSort: []core.Ordering{{Field: "enrollmentDate"}},
		Describe: func(ce enrollment.CourseEnrollment) string {
			return ce.StudentName + " in " + ce.CourseName + " (its level and subject enrollments go with it)"
		},
		ReadOnly: true,
	}
}

func (s *Server) usersPage() entityPage[user.User, user.Form] {
	return entityPage[user.User, user.Form]{
		Config: pages.Config[user.User, user.Form]{
			Entity:  "user",
			Store:   s.Services.Users,
			ID:      func(u user.User) int64 { return u.ID },
			NewForm: func() user.Form { return user.Form{Active: true} },
			ToForm:  user.FormFrom,
		},
		EditForm: func() user.Form { return user.Form{Editing: true} },
		Columns: []column[user.User]{
			{Header: "Username", Sort: "username", Value: func(u user.User) string { return u.Username }},
			{Header: "Email", Sort: "email", Value: func(u user.User) string { return u.Email }},
			{Header: "Roles", Value: func(u user.User) string {
				labels := make([]string, 0, len(u.Roles))
				for _, r := range u.Roles {
					labels = append(labels, r.Label())
				}
				return strings.Join(labels, ", ")
			}},
			{Header: "Active", Value: func(u user.User) string { return yesNo(u.Active) }},
		},
		DefaultSort: []core.Ordering{{Field: "username", Ascending: true}},
		Fields: func(ctx context.Context) ([]field, error) {
			roles, err := s.Services.Roles.All(ctx)
			if err != nil {
				return nil, err
			}
			opts := make([]option, 0, len(roles))
			for _, r := range roles {
				name := user.ParseRole(r.Name)
				opts = append(opts, option{Value: string(name), Label: name.Label()})
			}
			return []field{
				{Name: "username", Label: "Username", Type: inputText, Required: true},
				{Name: "email", Label: "Email", Type: inputEmail, Required: true},
				{Name: "password", Label: "Password", Type: inputPassword, Help: "Leave blank to keep the current password."},
				{Name: "passwordConfirm", Label: "Confirm password", Type: inputPassword},
				{Name: "roles", Label: "Roles", Type: inputMulti, Required: true, Options: opts},
				{Name: "active", Label: "Active", Type: inputCheckbox},
			}, nil
		},
		Describe: func(u user.User) string { return u.Username },
	}
}

func (s *Server) rolesPage() entityPage[user.Role, user.RoleForm] {
	return entityPage[user.Role, user.RoleForm]{
		Config: pages.Config[user.Role, user.RoleForm]{
			Entity:    "role",
			Store:     withoutSearch[user.Role, user.RoleForm](s.Services.Roles),
			ID:        func(r user.Role) int64 { return r.ID },
			NewForm:   func() user.RoleForm { return user.RoleForm{} },
			ToForm:    user.RoleFormFrom,
			CanRemove: pages.CanRemoveRole,
		},
		Columns: []column[user.Role]{
			{Header: "Name", Sort: "name", Value: func(r user.Role) string { return r.Name }},
			{Header: "Description", Value: func(r user.Role) string { return r.Description }},
			{Header: "Users", Value: func(r user.Role) string { return strconv.Itoa(r.UserCount) }},
		},
		DefaultSort: []core.Ordering{{Field: "name", Ascending: true}},
		Fields: staticFields(
			field{Name: "name", Label: "Name", Type: inputText, Required: true, Help: "Upper case, e.g. SECRETARY."},
			field{Name: "description", Label: "Description", Type: inputTextArea},
		),
		Describe: func(r user.Role) string { return r.Name },
	}
}

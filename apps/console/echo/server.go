// Package echoconsole is the operator console: an echo server rendering the GEA pages.
package echoconsole

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/academic"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/auth"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/course"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/enrollment"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/grading"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/pages"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/professor"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/session"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/student"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
)

// Services are the domain services the pages drive.
type Services struct {
	Auth        *auth.Service
	Students    *student.Service
	Professors  *professor.Service
	Courses     *course.Service
	Groups      *course.GroupService
	Levels      *academic.LevelService
	Subjects    *academic.SubjectService
	Periods     *academic.PeriodService
	Assignments *academic.AssignmentService
	Enrollments *enrollment.Service
	Grades      *grading.GradeService
	Attendance  *grading.AttendanceService
	Users       *user.Service
	Roles       *user.RoleService
}

func NewServices(client *api.Client) Services {
	return Services{
		Auth:        auth.NewService(client),
		Students:    student.NewService(client),
		Professors:  professor.NewService(client),
		Courses:     course.NewService(client),
		Groups:      course.NewGroupService(client),
		Levels:      academic.NewLevelService(client),
		Subjects:    academic.NewSubjectService(client),
		Periods:     academic.NewPeriodService(client),
		Assignments: academic.NewAssignmentService(client),
		Enrollments: enrollment.NewService(client),
		Grades:      grading.NewGradeService(client),
		Attendance:  grading.NewAttendanceService(client),
		Users:       user.NewService(client),
		Roles:       user.NewRoleService(client),
	}
}

type Deps struct {
	Conf       *core.Config
	Logger     core.Logger
	Session    *session.Session
	Services   Services
	Validate   *validator.Validate
	Translator ut.Translator
}

type Server struct {
	Deps
	app     *echo.Echo
	toaster *pages.Toaster

	wizardMu sync.Mutex
	wizard   *pages.Wizard

	errors   chan error
	shutdown chan os.Signal
}

func NewServer(deps Deps) *Server {
	s := &Server{
		Deps:     deps,
		app:      echo.New(),
		toaster:  pages.NewToaster(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.wizard = pages.NewWizard(s.pageDeps(), deps.Services.Enrollments)
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	debug := s.Conf.Debug

	s.app.HideBanner = true
	s.app.Debug = debug
	s.app.Logger.SetLevel(log.INFO)
	s.app.Renderer = newRenderer()
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.Conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XFrameOptions:      "DENY",
		ContentTypeNosniff: "nosniff",
	}))

	s.app.GET("/login", s.loginPage)
	s.app.POST("/login", s.login)
	s.app.POST("/logout", s.logout)

	s.app.GET(dashboardRoute.Path, s.dashboard, s.guard(dashboardRoute))

	registerEntity(s, studentsRoute, s.studentsPage())
	registerEntity(s, professorsRoute, s.professorsPage())
	registerEntity(s, coursesRoute, s.coursesPage())
	registerEntity(s, levelsRoute, s.levelsPage())
	registerEntity(s, subjectsRoute, s.subjectsPage())
	registerEntity(s, groupsRoute, s.groupsPage())
	registerEntity(s, periodsRoute, s.periodsPage())
	registerEntity(s, assignmentsRoute, s.assignmentsPage())
	registerEntity(s, courseEnrollmentsRoute, s.courseEnrollmentsPage())
	registerEntity(s, usersRoute, s.usersPage())
	registerEntity(s, rolesRoute, s.rolesPage())

	wizard := s.guard(wizardRoute)
	s.app.GET(wizardRoute.Path, s.wizardPage, wizard)
	s.app.POST(wizardRoute.Path, s.wizardStep, wizard)

	grades := s.guard(gradesRoute)
	s.app.GET(gradesRoute.Path, s.gradesPage, grades)
	s.app.POST(gradesRoute.Path, s.saveGrades, grades)

	attendance := s.guard(attendanceRoute)
	s.app.GET(attendanceRoute.Path, s.attendancePage, attendance)
	s.app.POST(attendanceRoute.Path, s.saveAttendance, attendance)
}

func (s *Server) pageDeps() pages.Deps {
	return pages.Deps{Validate: s.Validate, Translator: s.Translator, Toaster: s.toaster, Logger: s.Logger}
}

// Start serves until Shutdown or Close; any other failure is sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- errors.Wrap(err, "starting console server")
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

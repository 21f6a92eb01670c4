package echoconsole

import (
	"strings"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/session"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
)

type section string

const (
	sectionHome       section = ""
	sectionPeople     section = "People"
	sectionAcademic   section = "Academic"
	sectionEnrollment section = "Enrollment"
	sectionGrading    section = "Grading"
	sectionAdmin      section = "Administration"
)

var navSections = []section{sectionHome, sectionPeople, sectionAcademic, sectionEnrollment, sectionGrading, sectionAdmin}

// route is one guarded page of the console.
type route struct {
	Path     string
	Title    string
	Section  section
	Requires user.Requirement // empty: any signed-in user
	Hidden   bool             // reachable but not listed in the navigation
}

var (
	staff    = user.RequiresAnyOf(user.StaffRoles...)
	teachers = user.RequiresAnyOf(user.RoleAdmin, user.RoleCoordinator, user.RoleProfessor)
	admins   = user.RequiresAnyOf(user.RoleAdmin)
)

var (
	dashboardRoute         = route{Path: "/", Title: "Dashboard", Section: sectionHome}
	studentsRoute          = route{Path: "/students", Title: "Students", Section: sectionPeople, Requires: staff}
	professorsRoute        = route{Path: "/professors", Title: "Professors", Section: sectionPeople, Requires: staff}
	coursesRoute           = route{Path: "/courses", Title: "Courses", Section: sectionAcademic, Requires: staff}
	levelsRoute            = route{Path: "/levels", Title: "Levels", Section: sectionAcademic, Requires: staff}
	subjectsRoute          = route{Path: "/subjects", Title: "Subjects", Section: sectionAcademic, Requires: staff}
	groupsRoute            = route{Path: "/course-groups", Title: "Course groups", Section: sectionAcademic, Requires: staff}
	periodsRoute           = route{Path: "/academic-periods", Title: "Academic periods", Section: sectionAcademic, Requires: staff}
	assignmentsRoute       = route{Path: "/subject-assignments", Title: "Subject assignments", Section: sectionAcademic, Requires: staff}
	courseEnrollmentsRoute = route{Path: "/course-enrollments", Title: "Course enrollments", Section: sectionEnrollment, Requires: staff}
	wizardRoute            = route{Path: "/enrollments/new", Title: "New enrollment", Section: sectionEnrollment, Requires: staff}
	gradesRoute            = route{Path: "/grades", Title: "Grades", Section: sectionGrading, Requires: teachers}
	attendanceRoute        = route{Path: "/attendance", Title: "Attendance", Section: sectionGrading, Requires: teachers}
	usersRoute             = route{Path: "/users", Title: "Users", Section: sectionAdmin, Requires: admins}
	rolesRoute             = route{Path: "/roles", Title: "Roles", Section: sectionAdmin, Requires: admins}
)

// routes is the navigation order.
var routes = []route{
	dashboardRoute,
	studentsRoute, professorsRoute,
	coursesRoute, levelsRoute, subjectsRoute, groupsRoute, periodsRoute, assignmentsRoute,
	courseEnrollmentsRoute, wizardRoute,
	gradesRoute, attendanceRoute,
	usersRoute, rolesRoute,
}

type navLink struct {
	Title  string
	Path   string
	Active bool
}

type navSection struct {
	Name  string
	Links []navLink
}

// buildNav lists the routes the operator may open, grouped by section.
func buildNav(sess *session.Session, currentPath string) []navSection {
	var nav []navSection
	for _, sec := range navSections {
		var links []navLink
		for _, rt := range routes {
			if rt.Section != sec || rt.Hidden || !sess.Satisfies(rt.Requires) {
				continue
			}
			links = append(links, navLink{Title: rt.Title, Path: rt.Path, Active: isActive(rt.Path, currentPath)})
		}
		if len(links) > 0 {
			nav = append(nav, navSection{Name: string(sec), Links: links})
		}
	}
	return nav
}

func isActive(routePath, currentPath string) bool {
	if routePath == "/" {
		return currentPath == "/"
	}
	return currentPath == routePath || strings.HasPrefix(currentPath, routePath+"/")
}

package echoconsole

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/pages"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutTemplate   = "templates/layout.html"
	partialsTemplate = "templates/partials.html"
)

var pageTemplates = []string{
	"login", "dashboard", "list", "form", "confirm", "error", "wizard", "grades", "attendance",
}

var templateFuncs = template.FuncMap{
	"contains": func(values []string, v string) bool {
		for _, value := range values {
			if value == v {
				return true
			}
		}
		return false
	},
	"first": func(values []string) string {
		if len(values) == 0 {
			return ""
		}
		return values[0]
	},
	"lower": strings.ToLower,
	"grade": func(v float64, ok bool) string {
		if !ok {
			return ""
		}
		return fmt.Sprintf("%.2f", v)
	},
}

// renderer executes a page template inside the shared layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() *renderer {
	r := &renderer{pages: make(map[string]*template.Template, len(pageTemplates))}
	for _, name := range pageTemplates {
		r.pages[name] = template.Must(template.New("layout.html").Funcs(templateFuncs).ParseFS(
			templateFS, layoutTemplate, partialsTemplate, "templates/"+name+".html",
		))
	}
	return r
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	// buffered: a failing template must not leave half a page behind
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return errors.Wrapf(err, "rendering %s", name)
	}
	_, err := buf.WriteTo(w)
	return err
}

// view is what every template receives.
type view struct {
	AppName       string
	Build         string
	Title         string
	Path          string
	Authenticated bool
	User          user.User
	Role          string
	Nav           []navSection
	Toasts        []pages.Toast
	Data          interface{}
}

func (s *Server) render(ctx echo.Context, code int, name, title string, data interface{}) error {
	usr, authenticated := s.Session.User()
	v := view{
		AppName:       s.Conf.AppName,
		Build:         s.Conf.Build,
		Title:         title,
		Path:          ctx.Request().URL.Path,
		Authenticated: authenticated,
		User:          usr,
		Toasts:        s.toaster.Drain(),
		Data:          data,
	}
	if authenticated {
		v.Role = user.PrimaryRole(usr.Roles).Label()
		v.Nav = buildNav(s.Session, v.Path)
	}
	return ctx.Render(code, name, v)
}

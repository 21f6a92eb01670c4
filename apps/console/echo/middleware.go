package echoconsole

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const routeContextKey = "route"

// guard sends anonymous operators to the login page and refuses operators lacking rt's roles.
func (s *Server) guard(rt route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !s.Session.IsAuthenticated() {
				return ctx.Redirect(http.StatusSeeOther, loginURL(ctx.Request().URL.RequestURI()))
			}
			if !s.Session.Satisfies(rt.Requires) {
				return errHttpForbidden
			}
			ctx.Set(routeContextKey, rt)
			ctx.Response().Header().Set("Cache-Control", "no-store")
			return next(ctx)
		}
	}
}

func loginURL(next string) string {
	if next == "" || next == "/" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

// safeNext keeps redirects after login on this host.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

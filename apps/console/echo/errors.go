package echoconsole

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/pages"
)

var (
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "You do not have permission to open this page.")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "The page you are looking for does not exist.")
)

type errorPage struct {
	Code    int
	Message string
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// The server shuts down gracefully whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(s *Server) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *api.Error:
			switch origErr.StatusCode {
			case http.StatusUnauthorized:
				// the client already cleared the credentials
				s.toaster.Warn("Your session has expired. Please sign in again.")
				if rErr := ctx.Redirect(http.StatusSeeOther, loginURL(ctx.Request().URL.RequestURI())); rErr != nil {
					s.Logger.Error("redirecting to login", rErr)
				}
				return
			case http.StatusForbidden:
				code, message = http.StatusForbidden, fmt.Sprint(errHttpForbidden.Message)
			case http.StatusNotFound:
				code, message = http.StatusNotFound, pages.FriendlyMessage(origErr)
			default:
				code, message = http.StatusBadGateway, pages.FriendlyMessage(origErr)
				s.logError(ctx, "api request failed", err)
			}
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = fmt.Sprint(origErr.Message)
			if code == http.StatusNotFound && origErr == echo.ErrNotFound {
				message = fmt.Sprint(errHttpNotFound.Message)
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			s.logError(ctx, message, errors.Wrap(err, message))

			// shutting down...
			if core.IsShutdown(err) {
				s.signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}

		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(code)
		} else {
			err = s.render(ctx, code, "error", http.StatusText(code), errorPage{Code: code, Message: message})
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

// logError attaches the signed-in operator to the report.
func (s *Server) logError(ctx echo.Context, msg string, err error) {
	extra := map[string]interface{}{"method": ctx.Request().Method, "path": ctx.Request().URL.Path}
	if usr, ok := s.Session.User(); ok {
		s.Logger.Error(msg, err, extra, usr)
		return
	}
	s.Logger.Error(msg, err, extra)
}

package echoconsole

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/auth"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/pages"
)

type loginForm struct {
	Username string
	Next     string
	Errors   map[string]string
}

func (s *Server) loginPage(ctx echo.Context) error {
	next := safeNext(ctx.QueryParam("next"))
	if s.Session.IsAuthenticated() {
		return ctx.Redirect(http.StatusSeeOther, next)
	}
	return s.render(ctx, http.StatusOK, "login", "Sign in", loginForm{Next: next})
}

func (s *Server) login(ctx echo.Context) error {
	var creds auth.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return err
	}
	form := loginForm{Username: creds.Username, Next: safeNext(ctx.FormValue("next"))}

	if err := creds.Validate(s.Validate); err != nil {
		fields, ok := core.FieldErrors(err, s.Translator)
		if !ok {
			return err
		}
		form.Errors = fields
		return s.render(ctx, http.StatusUnprocessableEntity, "login", "Sign in", form)
	}

	res, err := s.Services.Auth.Login(ctx.Request().Context(), creds)
	if err != nil {
		s.Logger.Warn("login failed", err, map[string]interface{}{"username": creds.Username})
		if apiErr, ok := api.AsError(err); ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusBadRequest) {
			s.toaster.Error("Invalid username or password.")
		} else {
			s.toaster.Error(pages.FriendlyMessage(err))
		}
		return s.render(ctx, http.StatusUnauthorized, "login", "Sign in", form)
	}

	if err = s.Session.Start(res.Token, res.User, res.ExpiresAt()); err != nil {
		return err
	}
	s.Logger.Info("operator signed in", res.User)
	s.toaster.Success("Welcome, " + res.User.Username + ".")
	return ctx.Redirect(http.StatusSeeOther, form.Next)
}

func (s *Server) logout(ctx echo.Context) error {
	if usr, ok := s.Session.User(); ok {
		s.Logger.Info("operator signed out", usr)
	}
	if err := s.Session.Clear(); err != nil {
		return err
	}
	s.toaster.Info("You have signed out.")
	return ctx.Redirect(http.StatusSeeOther, "/login")
}

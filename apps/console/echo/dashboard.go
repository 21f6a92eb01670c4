package echoconsole

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/academic"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
)

type dashboardData struct {
	CurrentPeriod *academic.Period
	Shortcuts     []navLink
}

func (s *Server) dashboard(ctx echo.Context) error {
	var data dashboardData

	period, err := s.Services.Periods.Current(ctx.Request().Context())
	switch {
	case err == nil:
		data.CurrentPeriod = &period
	case api.IsUnauthorized(err):
		return err
	case api.IsNotFound(err):
		// no active period yet
	default:
		s.Logger.Warn("loading current period", err)
	}

	for _, sec := range buildNav(s.Session, "") {
		for _, link := range sec.Links {
			if link.Path != dashboardRoute.Path {
				data.Shortcuts = append(data.Shortcuts, link)
			}
		}
	}
	return s.render(ctx, http.StatusOK, "dashboard", dashboardRoute.Title, data)
}

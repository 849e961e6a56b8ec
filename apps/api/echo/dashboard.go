package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/varadc-2304/admin-command-station/core/dashboard"
)

type dashboardApi struct {
	svc *dashboard.Service
}

func registerDashboardAPI(g *echo.Group, jwt, su echo.MiddlewareFunc, svc *dashboard.Service) {
	api := dashboardApi{svc: svc}

	dg := g.Group("/dashboard", jwt, su)
	dg.GET("", api.stats)
	dg.GET("/organizations", api.organizations)
}

func (api *dashboardApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return failed(err, "Failed to fetch dashboard")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *dashboardApi) organizations(ctx echo.Context) error {
	summaries, err := api.svc.OrganizationSummaries(ctx.Request().Context())
	if err != nil {
		return failed(err, "Failed to fetch organization stats")
	}
	return ctx.JSON(http.StatusOK, summaries)
}

package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/assignment"
)

// AssessmentView is an assessment listed with its display duration and assigned organizations.
type AssessmentView struct {
	assessment.Assessment
	FormattedDuration     string   `json:"formatted_duration"`
	AssignedOrganizations []string `json:"assigned_organizations"`
}

type assessmentApi struct {
	svc      *assessment.Service
	registry *assignment.Registry
	validate *validator.Validate
}

func registerAssessmentAPI(
	g *echo.Group,
	jwt, su echo.MiddlewareFunc,
	svc *assessment.Service,
	registry *assignment.Registry,
	validate *validator.Validate,
) {
	api := assessmentApi{svc: svc, registry: registry, validate: validate}

	ag := g.Group("/assessments", jwt, su)
	ag.GET("", api.query)
	ag.POST("", api.create)

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/assign", api.assign)
	dg.GET("/organizations", api.assignees)
}

// Handlers

func (api *assessmentApi) query(ctx echo.Context) error {
	filter := new(assessment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to assessment.QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx, assessment.OrderingFields)

	items, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return failed(err, "Failed to fetch assessments")
	}
	index, err := api.registry.AssigneeIndex(ctx.Request().Context(), assignment.Assessments)
	if err != nil {
		return failed(err, "Failed to fetch assessments")
	}

	views := make([]AssessmentView, 0, len(items))
	for _, a := range items {
		orgIDs := index[a.Code]
		if orgIDs == nil {
			orgIDs = []string{}
		}
		views = append(views, AssessmentView{
			Assessment:            a,
			FormattedDuration:     a.FormattedDuration(),
			AssignedOrganizations: orgIDs,
		})
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *assessmentApi) create(ctx echo.Context) error {
	var data assessment.NewAssessment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssessment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return failed(err, "Failed to create assessment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assessmentApi) retrieve(ctx echo.Context) error {
	a, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return failed(err, "Failed to fetch assessment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assessmentApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orig, err := api.svc.Get(reqCtx, ctx.Param("id"))
	if err != nil {
		return failed(err, "Failed to update assessment")
	}

	var data assessment.UpdateAssessment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssessment")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	a, err := api.svc.Update(reqCtx, orig, data)
	if err != nil {
		return failed(err, "Failed to update assessment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assessmentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return failed(err, "Failed to delete assessment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assessmentApi) assign(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	a, err := api.svc.Get(reqCtx, ctx.Param("id"))
	if err != nil {
		return failed(err, "Failed to assign assessment")
	}

	var data AssignRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignRequest")
	}

	count, err := api.registry.Assign(reqCtx, assignment.Assessments, a.Code, data.OrganizationIDs)
	if err != nil {
		return failed(err, "Failed to assign assessment")
	}
	return ctx.JSON(http.StatusOK, AssignResponse{
		Assigned: true,
		Count:    count,
		Notice:   assignedNotice(assignment.Assessments, count),
	})
}

func (api *assessmentApi) assignees(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	a, err := api.svc.Get(reqCtx, ctx.Param("id"))
	if err != nil {
		return failed(err, "Failed to fetch organizations")
	}
	assignees, err := api.registry.Assignees(reqCtx, assignment.Assessments, a.Code)
	if err != nil {
		return failed(err, "Failed to fetch organizations")
	}
	return ctx.JSON(http.StatusOK, assignees)
}

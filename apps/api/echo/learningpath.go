package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core/assignment"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
)

// LearningPathView is a learning path listed with the organizations it is assigned to.
type LearningPathView struct {
	learningpath.LearningPath
	AssignedOrganizations []string `json:"assigned_organizations"`
}

type learningPathApi struct {
	svc      *learningpath.Service
	registry *assignment.Registry
	validate *validator.Validate
}

func registerLearningPathAPI(
	g *echo.Group,
	jwt, su echo.MiddlewareFunc,
	svc *learningpath.Service,
	registry *assignment.Registry,
	validate *validator.Validate,
) {
	api := learningPathApi{svc: svc, registry: registry, validate: validate}

	lg := g.Group("/learning-paths", jwt, su)
	lg.GET("", api.query)
	lg.POST("", api.create)

	dg := lg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/assign", api.assign)
	dg.GET("/organizations", api.assignees)
}

// Handlers

func (api *learningPathApi) query(ctx echo.Context) error {
	filter := new(learningpath.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to learningpath.QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx, learningpath.OrderingFields)

	paths, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return failed(err, "Failed to fetch learning paths")
	}
	index, err := api.registry.AssigneeIndex(ctx.Request().Context(), assignment.LearningPaths)
	if err != nil {
		return failed(err, "Failed to fetch learning paths")
	}

	views := make([]LearningPathView, 0, len(paths))
	for _, lp := range paths {
		orgIDs := index[lp.ID]
		if orgIDs == nil {
			orgIDs = []string{}
		}
		views = append(views, LearningPathView{LearningPath: lp, AssignedOrganizations: orgIDs})
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *learningPathApi) create(ctx echo.Context) error {
	var data learningpath.NewLearningPath
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLearningPath")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	lp, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return failed(err, "Failed to create learning path")
	}
	return ctx.JSON(http.StatusCreated, lp)
}

func (api *learningPathApi) retrieve(ctx echo.Context) error {
	lp, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return failed(err, "Failed to fetch learning path")
	}
	return ctx.JSON(http.StatusOK, lp)
}

func (api *learningPathApi) update(ctx echo.Context) error {
	var data learningpath.UpdateLearningPath
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLearningPath")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	lp, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return failed(err, "Failed to update learning path")
	}
	return ctx.JSON(http.StatusOK, lp)
}

func (api *learningPathApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return failed(err, "Failed to delete learning path")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *learningPathApi) assign(ctx echo.Context) error {
	var data AssignRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignRequest")
	}

	count, err := api.registry.Assign(ctx.Request().Context(), assignment.LearningPaths, ctx.Param("id"), data.OrganizationIDs)
	if err != nil {
		return failed(err, "Failed to assign learning path")
	}
	return ctx.JSON(http.StatusOK, AssignResponse{
		Assigned: true,
		Count:    count,
		Notice:   assignedNotice(assignment.LearningPaths, count),
	})
}

func (api *learningPathApi) assignees(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if _, err := api.svc.Get(reqCtx, ctx.Param("id")); err != nil {
		return failed(err, "Failed to fetch organizations")
	}
	assignees, err := api.registry.Assignees(reqCtx, assignment.LearningPaths, ctx.Param("id"))
	if err != nil {
		return failed(err, "Failed to fetch organizations")
	}
	return ctx.JSON(http.StatusOK, assignees)
}

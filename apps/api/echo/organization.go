package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core/assignment"
	"github.com/varadc-2304/admin-command-station/core/organization"
)

type organizationApi struct {
	svc      *organization.Service
	registry *assignment.Registry
	validate *validator.Validate
}

func registerOrganizationAPI(
	g *echo.Group,
	jwt, su echo.MiddlewareFunc,
	svc *organization.Service,
	registry *assignment.Registry,
	validate *validator.Validate,
) {
	api := organizationApi{svc: svc, registry: registry, validate: validate}

	og := g.Group("/organizations", jwt, su)
	og.GET("", api.query)
	og.POST("", api.create)

	dg := og.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)

	dg.GET("/learning-paths", api.assignedItems(assignment.LearningPaths))
	dg.POST("/learning-paths/:ref", api.toggle(assignment.LearningPaths))
	dg.DELETE("/learning-paths/:ref", api.unassign(assignment.LearningPaths))
	dg.GET("/assessments", api.assignedItems(assignment.Assessments))
	dg.POST("/assessments/:ref", api.toggle(assignment.Assessments))
	dg.DELETE("/assessments/:ref", api.unassign(assignment.Assessments))
}

// Handlers

func (api *organizationApi) query(ctx echo.Context) error {
	filter := new(organization.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to organization.QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx, organization.OrderingFields)

	orgs, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return failed(err, "Failed to fetch organizations")
	}
	return ctx.JSON(http.StatusOK, orgs)
}

func (api *organizationApi) create(ctx echo.Context) error {
	var data organization.NewOrganization
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOrganization")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	org, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return failed(err, "Failed to create organization")
	}
	return ctx.JSON(http.StatusCreated, org)
}

func (api *organizationApi) retrieve(ctx echo.Context) error {
	org, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return failed(err, "Failed to fetch organization")
	}
	return ctx.JSON(http.StatusOK, org)
}

func (api *organizationApi) update(ctx echo.Context) error {
	var data organization.UpdateOrganization
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateOrganization")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	org, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return failed(err, "Failed to update organization")
	}
	return ctx.JSON(http.StatusOK, org)
}

func (api *organizationApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return failed(err, "Failed to delete organization")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *organizationApi) assignedItems(kind assignment.Kind) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		refs, err := api.registry.AssignedItems(ctx.Request().Context(), ctx.Param("id"), kind)
		if err != nil {
			return failed(err, "Failed to fetch assigned "+pluralLabel(kind))
		}
		return ctx.JSON(http.StatusOK, refs)
	}
}

func (api *organizationApi) toggle(kind assignment.Kind) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		assigned, err := api.registry.Toggle(ctx.Request().Context(), kind, ctx.Param("id"), ctx.Param("ref"))
		if err != nil {
			return failed(err, "Failed to update "+pluralLabel(kind))
		}

		notice := kind.Label() + " unassigned."
		if assigned {
			notice = kind.Label() + " assigned."
		}
		return ctx.JSON(http.StatusOK, AssignResponse{Assigned: assigned, Notice: notice})
	}
}

func (api *organizationApi) unassign(kind assignment.Kind) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if err := api.registry.Unassign(ctx.Request().Context(), kind, ctx.Param("id"), ctx.Param("ref")); err != nil {
			return failed(err, "Failed to update "+pluralLabel(kind))
		}
		return ctx.JSON(http.StatusOK, AssignResponse{Notice: kind.Label() + " unassigned."})
	}
}

func pluralLabel(kind assignment.Kind) string {
	if kind == assignment.Assessments {
		return "assessments"
	}
	return "learning paths"
}

func assignedNotice(kind assignment.Kind, count int) string {
	return fmt.Sprintf("%s assigned to %d organization(s).", kind.Label(), count)
}

package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/varadc-2304/admin-command-station/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads `?ordering=name,-created_at`; fields outside `allowed` are dropped.
func (ord *Ordering) Bind(ctx echo.Context, allowed []string) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if !core.Contains(allowed, field) {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// AssignRequest is the body of a bulk assignment.
type AssignRequest struct {
	OrganizationIDs []string `json:"organization_ids"`
}

// AssignResponse reports an assignment change with a one-line notice.
type AssignResponse struct {
	Assigned bool   `json:"assigned"`
	Count    int    `json:"count,omitempty"`
	Notice   string `json:"notice"`
}

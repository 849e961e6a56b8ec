package echoapi

import (
	"github.com/labstack/echo/v4"
)

// superadminMiddleware only lets through tokens issued to the super-admin.
func superadminMiddleware(h jwtHelper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !claims.IsSuperadmin || claims.Issuer != h.issuer {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/cuttr/internal/utils"
)

// JWTMiddleware authenticates the request and stores user_id and role on the
// context. Websocket clients that cannot set headers may pass ?token=.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := c.QueryParam("token")
			if tokenStr == "" {
				var err error
				tokenStr, err = utils.BearerToken(c.Request().Header.Get("Authorization"))
				if err != nil {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
				}
			}

			claims, err := utils.ParseToken(secret, tokenStr)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}

package middleware

import (
	"context"
	"strconv"

	"webstore/internal/common"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWT returns the bearer token middleware. On success the subject claim is
// parsed into the request context as the authenticated user id.
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return
			}
			sub, ok := claims["sub"].(string)
			if !ok {
				return
			}
			userID, err := strconv.ParseInt(sub, 10, 64)
			if err != nil || userID <= 0 {
				return
			}
			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	})
}

// GetUserIDFromContext extracts the authenticated user id for a request.
func GetUserIDFromContext(c echo.Context) (int64, bool) {
	return common.UserIDFromContext(c.Request().Context())
}

// Package handler contains the HTTP handlers for the rental API.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// errNoUser is returned by getUserID when the context carries no usable
// user identity.
var errNoUser = errors.New("invalid user_id in context")

// getUserID extracts the authenticated user's ID from the echo context.
// JWT numeric claims decode as float64, but accept the other numeric
// shapes too.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errNoUser
}

// pathID parses the :id route parameter. A malformed or non-positive id
// is treated the same as a missing resource, so callers respond 404.
func pathID(c echo.Context) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// notFound writes the standard 404 body.
func notFound(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
}

package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/symphony/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetStagesHandler returns the effective stage configuration.
func GetStagesHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Symphony.Stages())
}

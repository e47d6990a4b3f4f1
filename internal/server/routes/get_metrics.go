package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/symphony/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetMetricsHandler returns the token usage accumulated since the last reset.
func GetMetricsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.AiClient.GetMetrics())
}

// DeleteMetricsHandler resets the accumulated metrics.
func DeleteMetricsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	app.AiClient.ResetMetrics()
	return c.JSON(http.StatusOK, map[string]string{"message": "Metrics reset"})
}

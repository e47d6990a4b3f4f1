package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/symphony/internal/server/middleware"
	"github.com/OFFIS-RIT/symphony/pkg/common"
	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CreateContextHandler distills an idea into a brainstorming context.
func CreateContextHandler(c echo.Context) error {
	data := new(common.IdeaInput)
	if err := c.Bind(data); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(data); err != nil {
		return badRequest(c, "idea_text is required")
	}

	app := c.(*middleware.AppContext).App
	res, err := app.Symphony.CreateContext(c.Request().Context(), *data)
	if err != nil {
		logger.Error("Failed to create context", "err", err)
		return stageFailed(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

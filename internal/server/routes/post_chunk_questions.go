package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/symphony/internal/server/middleware"
	"github.com/OFFIS-RIT/symphony/pkg/common"

	"github.com/labstack/echo/v4"
)

// ChunkQuestionsHandler flattens a question set into brainstorm chunks.
func ChunkQuestionsHandler(c echo.Context) error {
	data := new(common.BrainstormQuestions)
	if err := c.Bind(data); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(data); err != nil {
		return badRequest(c, "Invalid question set")
	}

	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Symphony.ChunkQuestions(*data))
}

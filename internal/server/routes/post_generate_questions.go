package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/symphony/internal/server/middleware"
	"github.com/OFFIS-RIT/symphony/pkg/common"
	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GenerateQuestionsHandler runs model_count question generation rounds.
func GenerateQuestionsHandler(c echo.Context) error {
	type generateQuestionsData struct {
		Context    string `json:"context" validate:"required"`
		ModelCount *int   `json:"model_count"`
	}

	data := new(generateQuestionsData)
	if err := c.Bind(data); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(data); err != nil {
		return badRequest(c, "context is required")
	}

	app := c.(*middleware.AppContext).App
	modelCount, err := countParam(c, data.ModelCount, "model_count", 1, app.MaxModelCount)
	if err != nil {
		return badRequest(c, err.Error())
	}

	sets, err := app.Symphony.GenerateQuestions(
		c.Request().Context(),
		common.BrainstormingContext{Context: data.Context},
		modelCount,
	)
	if err != nil {
		logger.Error("Failed to generate questions", "err", err, "model_count", modelCount)
		return stageFailed(c, err)
	}

	return c.JSON(http.StatusOK, sets)
}

package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/symphony/internal/server/middleware"
	"github.com/OFFIS-RIT/symphony/pkg/common"
	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SynthesizeQuestionsHandler merges a JSON array of question sets into one.
func SynthesizeQuestionsHandler(c echo.Context) error {
	type synthesizeQuestionsData struct {
		Sets []common.BrainstormQuestions `validate:"required,min=1,dive"`
	}

	data := new(synthesizeQuestionsData)
	if err := (&echo.DefaultBinder{}).BindBody(c, &data.Sets); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(data); err != nil {
		return badRequest(c, "At least one valid question set is required")
	}

	app := c.(*middleware.AppContext).App
	res, err := app.Symphony.SynthesizeQuestions(c.Request().Context(), data.Sets)
	if err != nil {
		logger.Error("Failed to synthesize questions", "err", err, "sets", len(data.Sets))
		return stageFailed(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

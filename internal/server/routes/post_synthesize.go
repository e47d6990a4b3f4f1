package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/symphony/internal/server/middleware"
	"github.com/OFFIS-RIT/symphony/pkg/common"
	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SynthesizeHandler merges all participants' responses into the final document.
// The body is a JSON array with one array of responses per participant.
func SynthesizeHandler(c echo.Context) error {
	type synthesizeData struct {
		Responses [][]common.BrainstormResponse `validate:"required,min=1,dive,dive"`
	}

	data := new(synthesizeData)
	if err := (&echo.DefaultBinder{}).BindBody(c, &data.Responses); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(data); err != nil {
		return badRequest(c, "At least one participant's responses are required")
	}

	app := c.(*middleware.AppContext).App
	res, err := app.Symphony.SynthesizeResponses(c.Request().Context(), data.Responses)
	if err != nil {
		logger.Error("Failed to synthesize responses", "err", err, "participants", len(data.Responses))
		return stageFailed(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

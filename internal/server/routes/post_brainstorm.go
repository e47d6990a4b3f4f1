package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/symphony/internal/server/middleware"
	"github.com/OFFIS-RIT/symphony/pkg/common"
	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BrainstormHandler lets participant_count simulated participants answer the
// question chunks.
func BrainstormHandler(c echo.Context) error {
	type brainstormData struct {
		Context          common.BrainstormingContext `json:"context"`
		QuestionChunks   []common.QuestionChunk      `json:"question_chunks" validate:"required,min=1,dive"`
		ParticipantCount *int                        `json:"participant_count"`
	}

	data := new(brainstormData)
	if err := c.Bind(data); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(data); err != nil {
		return badRequest(c, "context and at least one question chunk are required")
	}

	app := c.(*middleware.AppContext).App
	participants, err := countParam(c, data.ParticipantCount, "participant_count", 2, app.MaxParticipantCount)
	if err != nil {
		return badRequest(c, err.Error())
	}

	res, err := app.Symphony.BrainstormResponses(
		c.Request().Context(),
		data.Context,
		data.QuestionChunks,
		participants,
	)
	if err != nil {
		logger.Error("Failed to brainstorm", "err", err, "participant_count", participants)
		return stageFailed(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

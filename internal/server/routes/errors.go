package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// stageFailed reports an orchestrator error as a generic server failure
// carrying the error's message.
func stageFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// countParam resolves a count sent in the JSON body or as a query parameter.
// The body wins. A maxValue of zero means no upper bound.
func countParam(c echo.Context, body *int, name string, def, maxValue int) (int, error) {
	n := def
	switch {
	case body != nil:
		n = *body
	case c.QueryParam(name) != "":
		v, err := strconv.Atoi(c.QueryParam(name))
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		n = v
	}
	switch {
	case maxValue > 0 && (n < 1 || n > maxValue):
		return 0, fmt.Errorf("%s must be between 1 and %d", name, maxValue)
	case n < 1:
		return 0, fmt.Errorf("%s must be at least 1", name)
	}
	return n, nil
}

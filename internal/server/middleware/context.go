package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/symphony/pkg/ai"
	"github.com/OFFIS-RIT/symphony/pkg/symphony"
)

// AppUser is the caller identified by AuthMiddleware.
type AppUser struct {
	Subject string
	APIKey  bool
}

// App holds the process wide dependencies handlers work with.
type App struct {
	Symphony *symphony.Orchestrator
	AiClient ai.Client
	Key      *keyfunc.Keyfunc
	APIKey   string

	MaxModelCount       int
	MaxParticipantCount int
}

// AuthEnabled reports whether requests must carry credentials.
func (a *App) AuthEnabled() bool {
	return a.APIKey != "" || a.Key != nil
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

// AppContextMiddleware wraps every request context in an AppContext carrying app.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}

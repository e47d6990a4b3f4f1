package server

import (
	"github.com/OFFIS-RIT/symphony/internal/server/middleware"
	"github.com/OFFIS-RIT/symphony/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Pipeline stages
	apiRoutes.POST("/create-context", routes.CreateContextHandler)
	apiRoutes.POST("/generate-questions", routes.GenerateQuestionsHandler)
	apiRoutes.POST("/synthesize-questions", routes.SynthesizeQuestionsHandler)
	apiRoutes.POST("/chunk-questions", routes.ChunkQuestionsHandler)
	apiRoutes.POST("/brainstorm", routes.BrainstormHandler)
	apiRoutes.POST("/synthesize", routes.SynthesizeHandler)

	// Introspection
	apiRoutes.GET("/stages", routes.GetStagesHandler)
	apiRoutes.GET("/metrics", routes.GetMetricsHandler)
	apiRoutes.DELETE("/metrics", routes.DeleteMetricsHandler)
}

package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/symphony/internal/config"
	mid "github.com/OFFIS-RIT/symphony/internal/server/middleware"
	"github.com/OFFIS-RIT/symphony/internal/util"
	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// New builds the HTTP server around app.
func New(app *mid.App, bodyLimit string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))

	RegisterRoutes(e)
	return e
}

func Init() {
	util.LoadEnv()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := cfg.NewAIClient()
	if err != nil {
		logger.Fatal("Failed to create ai client", "err", err)
	}
	orchestrator, err := cfg.NewOrchestrator(client)
	if err != nil {
		logger.Fatal("Failed to create orchestrator", "err", err)
	}

	app := &mid.App{
		Symphony:            orchestrator,
		AiClient:            client,
		APIKey:              cfg.APIKey,
		MaxModelCount:       cfg.MaxModelCount,
		MaxParticipantCount: cfg.MaxParticipantCount,
	}
	if cfg.AuthURL != "" {
		jwksUrl := cfg.AuthURL + "/jwks"
		k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksUrl})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		app.Key = &k
	}
	if !app.AuthEnabled() {
		logger.Warn("No API_KEY or AUTH_URL set, the api is unauthenticated")
	}

	if cfg.Preload {
		go config.PreloadModels(ctx, client, orchestrator.Stages())
	}

	e := New(app, cfg.BodyLimit)

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "adapter", cfg.AIAdapter, "providers", client.Providers())
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

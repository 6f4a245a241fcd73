package api

import (
	"github.com/hannes44/exjobb-index-compression/internal/api/controllers"
	"github.com/hannes44/exjobb-index-compression/internal/app"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

func RegisterRoutes(e *echo.Echo, app *app.Context) {

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	runsCtrl := &controllers.RunsController{App: app}

	e.GET("/healthz", runsCtrl.Health)

	// Read-only view over stored benchmark runs
	e.GET("/runs", runsCtrl.List)
	e.GET("/runs/:id", runsCtrl.Get)
	e.GET("/runs/:id/csv", runsCtrl.CSV)
}

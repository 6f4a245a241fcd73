package main

import (
	"github.com/hannes44/exjobb-index-compression/internal/api"
	"github.com/labstack/echo/v5"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored benchmark runs over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	appCtx, err := loadApp()
	if err != nil {
		return err
	}
	defer appCtx.Store.Close()

	e := echo.New()

	api.RegisterRoutes(e, appCtx)

	appCtx.Logger.Info("serving benchmark results on :%s", appCtx.Config.Port)
	return e.Start(":" + appCtx.Config.Port)
}

package controllers

import (
	"bytes"
	"net/http"

	"github.com/hannes44/exjobb-index-compression/internal/app"
	"github.com/hannes44/exjobb-index-compression/internal/results"
	"github.com/labstack/echo/v5"
)

type RunsController struct {
	App *app.Context
}

func (ctrl *RunsController) Health(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// List returns every stored run without its rows.
func (ctrl *RunsController) List(c *echo.Context) error {
	runs, err := ctrl.App.Store.ListRuns()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if runs == nil {
		runs = []*results.Run{}
	}
	return c.JSON(http.StatusOK, runs)
}

// Get returns one run including its measurement rows.
func (ctrl *RunsController) Get(c *echo.Context) error {
	run, err := ctrl.App.Store.GetRun(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if run == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "run not found"})
	}
	return c.JSON(http.StatusOK, run)
}

// CSV streams one run in the merged CSV format.
func (ctrl *RunsController) CSV(c *echo.Context) error {
	run, err := ctrl.App.Store.GetRun(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if run == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "run not found"})
	}

	var buf bytes.Buffer
	if err := results.WriteMergedCSV(&buf, run.Rows); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

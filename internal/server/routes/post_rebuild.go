package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/fmadore/IWAC-spatial-overview/internal/queue"
	"github.com/fmadore/IWAC-spatial-overview/internal/server/middleware"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// PostRebuildHandler enqueues a pipeline rebuild job for the worker and
// returns the run id the caller can grep the worker logs for.
func PostRebuildHandler(c echo.Context) error {
	type rebuildRequest struct {
		Steps       []string `json:"steps"`
		WeightMin   int      `json:"weightMin" validate:"omitempty,min=1"`
		RequestedBy string   `json:"requestedBy"`
		Publish     bool     `json:"publish"`
	}

	req := new(rebuildRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	if app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"message": "Rebuild queue not configured"})
	}

	runID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate run id", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	job := queue.RebuildJob{
		RunID:       runID,
		Steps:       req.Steps,
		WeightMin:   req.WeightMin,
		RequestedBy: req.RequestedBy,
		Publish:     req.Publish,
	}
	if err := job.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := queue.EnqueueRebuild(app.Queue, job); err != nil {
		logger.Error("Failed to enqueue rebuild", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"runId": runID})
}

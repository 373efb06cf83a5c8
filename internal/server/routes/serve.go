package routes

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/fmadore/IWAC-spatial-overview/internal/server/middleware"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// serveArtifact streams the generated JSON file at path verbatim. Concurrent
// requests for the same file share one read through the singleflight group.
func serveArtifact(c echo.Context, path string) error {
	app := c.(*middleware.AppContext).App

	data, err, _ := app.Reads.Do(path, func() (any, error) {
		return os.ReadFile(path)
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Artifact not found, run the pipeline first"})
		}
		logger.Error("Failed to read artifact", "path", path, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data.([]byte))
}

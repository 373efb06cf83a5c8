package routes

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/fmadore/IWAC-spatial-overview/internal/server/middleware"
	"github.com/fmadore/IWAC-spatial-overview/internal/storage"
	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// GetNetworkHandler serves a network snapshot by name. With ?download=true
// and S3 configured it returns a presigned link to the published copy instead
// of the local file.
func GetNetworkHandler(c echo.Context) error {
	type getNetworkParams struct {
		Name string `param:"name" validate:"required,oneof=global spatial"`
	}

	params := new(getNetworkParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Unknown network, expected global or spatial"})
	}

	app := c.(*middleware.AppContext).App

	if c.QueryParam("download") == "true" {
		if app.S3 == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"message": "Object storage not configured"})
		}
		prefix := util.GetEnvString("PUBLISH_PREFIX", "data")
		key := prefix + "/networks/" + params.Name + ".json"
		link, err := storage.GenerateDownloadLink(c.Request().Context(), app.S3, key)
		if err != nil {
			logger.Error("Failed to generate download link", "key", key, "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		}
		return c.JSON(http.StatusOK, map[string]string{"url": link})
	}

	return serveArtifact(c, filepath.Join(app.Config.NetworksDir, params.Name+".json"))
}

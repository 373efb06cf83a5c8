package routes

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fmadore/IWAC-spatial-overview/internal/server/middleware"
)

// GetWorldMapHandler serves a world map cache payload by its relative path,
// e.g. /api/worldmap/choropleth/by_year/1998 or /api/worldmap/metadata. The
// .json suffix is optional.
func GetWorldMapHandler(c echo.Context) error {
	rel := strings.TrimPrefix(c.Param("*"), "/")
	if rel == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Cache path required"})
	}
	for _, part := range strings.Split(rel, "/") {
		if part == "" || part == "." || part == ".." {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid cache path"})
		}
	}
	if !strings.HasSuffix(rel, ".json") {
		rel += ".json"
	}

	cfg := c.(*middleware.AppContext).App.Config
	return serveArtifact(c, filepath.Join(cfg.WorldCacheDir, filepath.FromSlash(rel)))
}

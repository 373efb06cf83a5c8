package routes

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/fmadore/IWAC-spatial-overview/internal/server/middleware"
	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
)

// GetEntitiesHandler serves one entity collection by its plural name, e.g.
// /api/entities/persons.
func GetEntitiesHandler(c echo.Context) error {
	type getEntitiesParams struct {
		Type string `param:"type" validate:"required"`
	}

	params := new(getEntitiesParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request params"})
	}

	entityType, ok := catalog.TypeByCollection(params.Type)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Unknown entity type"})
	}

	cfg := c.(*middleware.AppContext).App.Config
	return serveArtifact(c, filepath.Join(cfg.EntitiesDir, entityType.Collection+".json"))
}

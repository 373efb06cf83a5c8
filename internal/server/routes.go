package server

import (
	"github.com/fmadore/IWAC-spatial-overview/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Generated artifact routes
	apiRoutes.GET("/networks/:name", routes.GetNetworkHandler)
	apiRoutes.GET("/entities/:type", routes.GetEntitiesHandler)
	apiRoutes.GET("/worldmap/*", routes.GetWorldMapHandler)
	apiRoutes.GET("/meta", routes.GetMetaHandler)

	// Rebuild route
	apiRoutes.POST("/rebuild", routes.PostRebuildHandler)
}

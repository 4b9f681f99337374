package server

import (
	"github.com/statref/uscite/internal/server/middleware"
	"github.com/statref/uscite/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Citation graph routes
	apiRoutes.GET("/citations/status", routes.GetCitationStatusHandler)
	apiRoutes.GET("/citations/stats", routes.GetCitationStatsHandler)
	apiRoutes.GET("/citations/related/:title/:section", routes.GetRelatedSectionsHandler)
	apiRoutes.GET("/citations/path", routes.GetCitationPathsHandler)
	apiRoutes.POST("/citations/reindex", routes.ReindexHandler, middleware.AuthMiddleware)
}

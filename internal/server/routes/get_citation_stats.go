package routes

import (
	"errors"
	"net/http"

	"github.com/statref/uscite/internal/server/middleware"
	"github.com/statref/uscite/pkg/store"

	"github.com/labstack/echo/v4"
)

// GetCitationStatsHandler returns aggregate ranking statistics over the
// citation graph: edge and section counts plus the most cited and most
// citing sections.
func GetCitationStatsHandler(c echo.Context) error {
	engine := c.(*middleware.AppContext).App.Engine
	ctx := c.Request().Context()

	stats, err := engine.Stats(ctx)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Citation graph not built yet"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, stats)
}

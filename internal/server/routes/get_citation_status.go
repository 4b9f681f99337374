package routes

import (
	"net/http"

	"github.com/statref/uscite/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetCitationStatusHandler reports whether the citation graph has been
// built yet. A fresh database simply has no citations table.
func GetCitationStatusHandler(c echo.Context) error {
	type citationStatusResponse struct {
		Available bool   `json:"available"`
		Message   string `json:"message"`
	}

	engine := c.(*middleware.AppContext).App.Engine
	ctx := c.Request().Context()

	available, err := engine.Available(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	message := "Citation graph is available"
	if !available {
		message = "Citation graph not built yet"
	}

	return c.JSON(http.StatusOK, citationStatusResponse{
		Available: available,
		Message:   message,
	})
}

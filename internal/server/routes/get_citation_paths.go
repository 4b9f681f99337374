package routes

import (
	"errors"
	"net/http"

	"github.com/statref/uscite/internal/server/middleware"
	"github.com/statref/uscite/pkg/cite"
	"github.com/statref/uscite/pkg/query"
	"github.com/statref/uscite/pkg/store"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetCitationPathsHandler searches for citation chains connecting two
// sections, breadth-first up to max_depth hops.
func GetCitationPathsHandler(c echo.Context) error {
	type citationPathsParams struct {
		SourceTitle   string `query:"source_title" validate:"required"`
		SourceSection string `query:"source_section" validate:"required"`
		TargetTitle   string `query:"target_title" validate:"required"`
		TargetSection string `query:"target_section" validate:"required"`
		MaxDepth      int    `query:"max_depth"`
	}

	type citationPathsResponse struct {
		Source     string     `json:"source"`
		Target     string     `json:"target"`
		Paths      [][]string `json:"paths"`
		PathsFound int        `json:"paths_found"`
	}

	params := new(citationPathsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.MaxDepth == 0 {
		params.MaxDepth = 3
	}

	source := cite.Normalize(params.SourceTitle, params.SourceSection)
	target := cite.Normalize(params.TargetTitle, params.TargetSection)

	engine := c.(*middleware.AppContext).App.Engine
	ctx := c.Request().Context()

	paths, err := engine.FindPaths(ctx, source, target, params.MaxDepth)
	if err != nil {
		if errors.Is(err, query.ErrInvalidQuery) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid title or section"})
		}
		if errors.Is(err, store.ErrUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Citation graph not built yet"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, citationPathsResponse{
		Source:     source,
		Target:     target,
		Paths:      paths,
		PathsFound: len(paths),
	})
}

package routes

import (
	"errors"
	"net/http"

	"github.com/statref/uscite/internal/server/middleware"
	"github.com/statref/uscite/pkg/cite"
	"github.com/statref/uscite/pkg/common"
	"github.com/statref/uscite/pkg/query"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetRelatedSectionsHandler returns the sections citing and cited by a
// given US Code section. Responds with empty lists when the graph has
// not been built yet.
func GetRelatedSectionsHandler(c echo.Context) error {
	type relatedSectionsParams struct {
		Title   string `param:"title" validate:"required"`
		Section string `param:"section" validate:"required"`
		Limit   int32  `query:"limit"`
	}

	type relatedSectionsResponse struct {
		Identifier   string                  `json:"identifier"`
		Title        string                  `json:"title"`
		Section      string                  `json:"section"`
		CitedBy      []common.RelatedSection `json:"cited_by"`
		Cites        []common.RelatedSection `json:"cites"`
		TotalCitedBy int                     `json:"total_cited_by"`
		TotalCites   int                     `json:"total_cites"`
	}

	params := new(relatedSectionsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.Limit == 0 {
		params.Limit = 10
	}

	identifier := cite.Normalize(params.Title, params.Section)

	engine := c.(*middleware.AppContext).App.Engine
	ctx := c.Request().Context()

	res, err := engine.Related(ctx, identifier, params.Limit)
	if err != nil {
		if errors.Is(err, query.ErrInvalidQuery) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid title or section"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	canonicalTitle, canonicalSection := cite.SplitIdentifier(identifier)

	return c.JSON(http.StatusOK, relatedSectionsResponse{
		Identifier:   identifier,
		Title:        canonicalTitle,
		Section:      canonicalSection,
		CitedBy:      res.CitedBy,
		Cites:        res.Cites,
		TotalCitedBy: res.TotalCitedBy,
		TotalCites:   res.TotalCites,
	})
}

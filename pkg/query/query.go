package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/statref/uscite/pkg/cite"
	"github.com/statref/uscite/pkg/common"
	"github.com/statref/uscite/pkg/store"
)

// ErrInvalidQuery marks requests that are rejected before touching the
// store: malformed identifiers or non-positive depth/limit values.
var ErrInvalidQuery = errors.New("invalid query")

// Hard ceilings applied regardless of caller input. They bound worst-case
// graph exploration and double as the cancellation mechanism for expensive
// traversals.
const (
	MaxDepth        = 5
	MaxRelatedLimit = 50
	maxPaths        = 5
)

// Engine composes CitationStorage reads into the query surface exposed to
// the rest of the application: related-sections lookup, graph statistics,
// and citation path search.
type Engine struct {
	store store.CitationStorage
}

// NewEngine creates a query engine on top of the given storage.
func NewEngine(s store.CitationStorage) *Engine {
	return &Engine{store: s}
}

// Available reports whether the citation graph has been built.
func (e *Engine) Available(ctx context.Context) (bool, error) {
	return e.store.Exists(ctx)
}

// Related returns both citation directions for a section. When the store
// has not been built it degrades to empty lists instead of failing, so UI
// callers can always render the page.
func (e *Engine) Related(ctx context.Context, identifier string, limit int32) (*common.RelatedResult, error) {
	if !cite.ValidIdentifier(identifier) {
		return nil, fmt.Errorf("%w: malformed identifier %q", ErrInvalidQuery, identifier)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidQuery)
	}
	if limit > MaxRelatedLimit {
		limit = MaxRelatedLimit
	}

	exists, err := e.store.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &common.RelatedResult{
			CitedBy: []common.RelatedSection{},
			Cites:   []common.RelatedSection{},
		}, nil
	}

	citedBy, err := e.store.CitedBy(ctx, identifier, limit)
	if err != nil {
		return nil, err
	}
	cites, err := e.store.Cites(ctx, identifier, limit)
	if err != nil {
		return nil, err
	}

	return &common.RelatedResult{
		CitedBy:      citedBy,
		Cites:        cites,
		TotalCitedBy: len(citedBy),
		TotalCites:   len(cites),
	}, nil
}

// Stats returns graph-wide statistics. Unlike Related it fails with
// store.ErrUnavailable when the graph has not been built, so callers can
// tell "not built" apart from "built but empty".
func (e *Engine) Stats(ctx context.Context) (*common.Stats, error) {
	exists, err := e.store.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrUnavailable
	}
	return e.store.Stats(ctx)
}

// FindPaths searches for citation paths from source to target with a
// breadth-first walk. Each frontier entry is a full path, so results need
// no reconstruction step. A node is marked visited when first enqueued and
// never re-explored; this biases results toward shortest paths and trades
// completeness for bounded cost. The search stops after maxPaths paths or
// when the frontier empties.
//
// maxDepth is clamped to MaxDepth; no returned path has more than
// maxDepth+1 identifiers. Fails with store.ErrUnavailable when the graph
// has not been built.
func (e *Engine) FindPaths(ctx context.Context, source, target string, maxDepth int) ([][]string, error) {
	if !cite.ValidIdentifier(source) {
		return nil, fmt.Errorf("%w: malformed source identifier %q", ErrInvalidQuery, source)
	}
	if !cite.ValidIdentifier(target) {
		return nil, fmt.Errorf("%w: malformed target identifier %q", ErrInvalidQuery, target)
	}
	if maxDepth <= 0 {
		return nil, fmt.Errorf("%w: max depth must be positive", ErrInvalidQuery)
	}
	if maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	exists, err := e.store.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrUnavailable
	}

	visited := map[string]bool{source: true}
	frontier := [][]string{{source}}
	found := make([][]string, 0, maxPaths)

	for len(frontier) > 0 && len(found) < maxPaths {
		path := frontier[0]
		frontier = frontier[1:]
		current := path[len(path)-1]

		if len(path) > maxDepth {
			continue
		}

		targets, err := e.store.TargetsOf(ctx, current)
		if err != nil {
			return nil, err
		}

		for _, next := range targets {
			if len(found) == maxPaths {
				break
			}
			if next == target {
				completed := append(append([]string{}, path...), next)
				found = append(found, completed)
				continue
			}
			if !visited[next] && len(path) < maxDepth {
				visited[next] = true
				frontier = append(frontier, append(append([]string{}, path...), next))
			}
		}
	}

	return found, nil
}

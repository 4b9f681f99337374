package store

import (
	"context"
	"errors"

	"github.com/statref/uscite/pkg/common"
)

// ErrUnavailable is returned when the citation store has not been built
// yet. Callers that can degrade gracefully (the related-sections lookup)
// swallow it; stats and path search surface it so an unbuilt graph is never
// mistaken for an empty one.
var ErrUnavailable = errors.New("citation store not available")

// CitationStorage is the persistence boundary of the citation graph.
// Implementations must make SaveCitations idempotent: re-inserting an
// already stored (source, target, citation_text) triple is silently ignored.
// Reads are safe for unbounded concurrent use; the graph is immutable
// between index runs.
type CitationStorage interface {
	// Exists reports whether the store has been built at all. A built but
	// empty graph still exists.
	Exists(ctx context.Context) (bool, error)

	// SaveCitations bulk-inserts citation edges and returns how many rows
	// were actually written (duplicates are skipped, not errors).
	SaveCitations(ctx context.Context, citations []common.Citation) (int64, error)

	// CitedBy returns edges whose target is identifier: the sections that
	// cite it.
	CitedBy(ctx context.Context, identifier string, limit int32) ([]common.RelatedSection, error)

	// Cites returns edges whose source is identifier: the sections it
	// cites.
	Cites(ctx context.Context, identifier string, limit int32) ([]common.RelatedSection, error)

	// TargetsOf returns the distinct target identifiers cited by
	// identifier. This is the adjacency lookup used by path search.
	TargetsOf(ctx context.Context, identifier string) ([]string, error)

	// Stats aggregates totals and the top-10 leaderboards in both
	// directions.
	Stats(ctx context.Context) (*common.Stats, error)
}

// ChunkRange invokes fn over [start, end) windows of at most chunkSize
// elements until total is covered or fn fails.
func ChunkRange(total, chunkSize int, fn func(start, end int) error) error {
	if total <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = total
	}
	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}

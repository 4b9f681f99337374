package query

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/statref/uscite/pkg/common"
	"github.com/statref/uscite/pkg/store"
)

// fakeStorage is an in-memory CitationStorage for engine tests.
type fakeStorage struct {
	exists    bool
	citations []common.Citation
	stats     *common.Stats
}

func (f *fakeStorage) Exists(ctx context.Context) (bool, error) {
	return f.exists, nil
}

func (f *fakeStorage) SaveCitations(ctx context.Context, citations []common.Citation) (int64, error) {
	f.citations = append(f.citations, citations...)
	return int64(len(citations)), nil
}

func (f *fakeStorage) CitedBy(ctx context.Context, identifier string, limit int32) ([]common.RelatedSection, error) {
	results := make([]common.RelatedSection, 0)
	for _, c := range f.citations {
		if c.TargetIdentifier != identifier || int32(len(results)) >= limit {
			continue
		}
		results = append(results, common.RelatedSection{
			Identifier:   c.SourceIdentifier,
			Title:        c.SourceTitle,
			Section:      c.SourceSection,
			Relationship: "cited_by",
			CitationText: c.CitationText,
		})
	}
	return results, nil
}

func (f *fakeStorage) Cites(ctx context.Context, identifier string, limit int32) ([]common.RelatedSection, error) {
	results := make([]common.RelatedSection, 0)
	for _, c := range f.citations {
		if c.SourceIdentifier != identifier || int32(len(results)) >= limit {
			continue
		}
		results = append(results, common.RelatedSection{
			Identifier:   c.TargetIdentifier,
			Title:        c.TargetTitle,
			Section:      c.TargetSection,
			Relationship: "cites",
			CitationText: c.CitationText,
		})
	}
	return results, nil
}

func (f *fakeStorage) TargetsOf(ctx context.Context, identifier string) ([]string, error) {
	seen := make(map[string]bool)
	var targets []string
	for _, c := range f.citations {
		if c.SourceIdentifier != identifier || seen[c.TargetIdentifier] {
			continue
		}
		seen[c.TargetIdentifier] = true
		targets = append(targets, c.TargetIdentifier)
	}
	sort.Strings(targets)
	return targets, nil
}

// Stats mirrors the storage semantics: total edge count, distinct
// endpoint counts, and top-10 rankings grouped by identifier and ordered
// by descending edge count. A preset stats value takes precedence.
func (f *fakeStorage) Stats(ctx context.Context) (*common.Stats, error) {
	if f.stats != nil {
		return f.stats, nil
	}

	stats := &common.Stats{TotalCitations: int64(len(f.citations))}

	byTarget := make(map[string]*common.RankedSection)
	bySource := make(map[string]*common.RankedSection)
	for _, c := range f.citations {
		if r, ok := byTarget[c.TargetIdentifier]; ok {
			r.Count++
		} else {
			byTarget[c.TargetIdentifier] = &common.RankedSection{
				Identifier: c.TargetIdentifier,
				Title:      c.TargetTitle,
				Section:    c.TargetSection,
				Count:      1,
			}
		}
		if r, ok := bySource[c.SourceIdentifier]; ok {
			r.Count++
		} else {
			bySource[c.SourceIdentifier] = &common.RankedSection{
				Identifier: c.SourceIdentifier,
				Title:      c.SourceTitle,
				Section:    c.SourceSection,
				Count:      1,
			}
		}
	}
	stats.CitedSections = int64(len(byTarget))
	stats.CitingSections = int64(len(bySource))
	stats.MostCited = rankTop(byTarget)
	stats.MostCiting = rankTop(bySource)

	return stats, nil
}

func rankTop(groups map[string]*common.RankedSection) []common.RankedSection {
	ranked := make([]common.RankedSection, 0, len(groups))
	for _, r := range groups {
		ranked = append(ranked, *r)
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	return ranked
}

func edge(source, target string) common.Citation {
	return common.Citation{
		SourceIdentifier: source,
		TargetIdentifier: target,
	}
}

func id(section string) string {
	return "/us/usc/t10/s" + section
}

func TestRelated_InvalidQuery(t *testing.T) {
	engine := NewEngine(&fakeStorage{exists: true})

	if _, err := engine.Related(context.Background(), "not-an-identifier", 10); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for malformed identifier, got %v", err)
	}
	if _, err := engine.Related(context.Background(), id("101"), 0); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for zero limit, got %v", err)
	}
}

func TestRelated_DegradesWhenStoreMissing(t *testing.T) {
	engine := NewEngine(&fakeStorage{exists: false})

	res, err := engine.Related(context.Background(), id("101"), 10)
	if err != nil {
		t.Fatalf("expected graceful degradation, got error %v", err)
	}
	if len(res.CitedBy) != 0 || len(res.Cites) != 0 || res.TotalCitedBy != 0 || res.TotalCites != 0 {
		t.Fatalf("expected all-empty result, got %+v", res)
	}
	if res.CitedBy == nil || res.Cites == nil {
		t.Fatal("expected empty lists, not nil, for JSON rendering")
	}
}

func TestRelated_BothDirections(t *testing.T) {
	fake := &fakeStorage{
		exists: true,
		citations: []common.Citation{
			edge(id("201"), id("101")),
			edge(id("202"), id("101")),
			edge(id("101"), id("301")),
		},
	}
	engine := NewEngine(fake)

	res, err := engine.Related(context.Background(), id("101"), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalCitedBy != 2 || res.TotalCites != 1 {
		t.Fatalf("unexpected totals: cited_by=%d cites=%d", res.TotalCitedBy, res.TotalCites)
	}
	if res.Cites[0].Identifier != id("301") {
		t.Fatalf("unexpected cites entry: %+v", res.Cites[0])
	}
}

func TestStats_StoreUnavailable(t *testing.T) {
	engine := NewEngine(&fakeStorage{exists: false})

	if _, err := engine.Stats(context.Background()); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected store.ErrUnavailable, got %v", err)
	}
}

func TestStats_PassesThrough(t *testing.T) {
	want := &common.Stats{TotalCitations: 42, CitingSections: 7, CitedSections: 9}
	engine := NewEngine(&fakeStorage{exists: true, stats: want})

	got, err := engine.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected stats: got %+v, want %+v", got, want)
	}
}

func TestStats_RanksMostCitedByEdgeCount(t *testing.T) {
	// X receives 5 edges from A and 3 from B; Y receives 1 from C. Every
	// edge carries a distinct citation text, so all rows survive dedup.
	// The ranking must put X before Y with counts 8 and 1.
	textCounter := 0
	addEdges := func(citations []common.Citation, source, target string, n int) []common.Citation {
		for i := 0; i < n; i++ {
			textCounter++
			c := edge(source, target)
			c.CitationText = "see section " + target + " #" + string(rune('a'+textCounter))
			citations = append(citations, c)
		}
		return citations
	}

	var citations []common.Citation
	citations = addEdges(citations, id("A"), id("X"), 5)
	citations = addEdges(citations, id("B"), id("X"), 3)
	citations = addEdges(citations, id("C"), id("Y"), 1)

	engine := NewEngine(&fakeStorage{exists: true, citations: citations})

	stats, err := engine.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalCitations != 9 {
		t.Fatalf("expected 9 total citations, got %d", stats.TotalCitations)
	}
	if stats.CitingSections != 3 || stats.CitedSections != 2 {
		t.Fatalf("unexpected section counts: citing=%d cited=%d", stats.CitingSections, stats.CitedSections)
	}

	if len(stats.MostCited) != 2 {
		t.Fatalf("expected 2 ranked targets, got %d", len(stats.MostCited))
	}
	if stats.MostCited[0].Identifier != id("X") || stats.MostCited[0].Count != 8 {
		t.Fatalf("expected X ranked first with count 8, got %+v", stats.MostCited[0])
	}
	if stats.MostCited[1].Identifier != id("Y") || stats.MostCited[1].Count != 1 {
		t.Fatalf("expected Y ranked second with count 1, got %+v", stats.MostCited[1])
	}

	if stats.MostCiting[0].Identifier != id("A") || stats.MostCiting[0].Count != 5 {
		t.Fatalf("expected A ranked first with count 5, got %+v", stats.MostCiting[0])
	}
}

func TestFindPaths_SimpleChain(t *testing.T) {
	fake := &fakeStorage{
		exists: true,
		citations: []common.Citation{
			edge(id("1"), id("2")),
			edge(id("2"), id("3")),
		},
	}
	engine := NewEngine(fake)

	paths, err := engine.FindPaths(context.Background(), id("1"), id("3"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{id("1"), id("2"), id("3")}}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("unexpected paths: got %v, want %v", paths, want)
	}
}

func TestFindPaths_DirectAndIndirect(t *testing.T) {
	fake := &fakeStorage{
		exists: true,
		citations: []common.Citation{
			edge(id("1"), id("9")),
			edge(id("1"), id("2")),
			edge(id("2"), id("9")),
		},
	}
	engine := NewEngine(fake)

	paths, err := engine.FindPaths(context.Background(), id("1"), id("9"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d: %v", len(paths), paths)
	}
	// The direct hop is found first: BFS explores shorter paths first.
	if !reflect.DeepEqual(paths[0], []string{id("1"), id("9")}) {
		t.Fatalf("expected direct path first, got %v", paths[0])
	}
}

func TestFindPaths_VisitedOnEnqueueSkipsAlternatives(t *testing.T) {
	// Diamond: 1→2→4→9 and 1→3→4→9. Node 4 is visited when first
	// enqueued via 2, so the path through 3 is never completed. The walk
	// trades completeness for bounded cost.
	fake := &fakeStorage{
		exists: true,
		citations: []common.Citation{
			edge(id("1"), id("2")),
			edge(id("1"), id("3")),
			edge(id("2"), id("4")),
			edge(id("3"), id("4")),
			edge(id("4"), id("9")),
		},
	}
	engine := NewEngine(fake)

	paths, err := engine.FindPaths(context.Background(), id("1"), id("9"), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{id("1"), id("2"), id("4"), id("9")}}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("expected single shortest-path-biased result, got %v", paths)
	}
}

func TestFindPaths_CycleSafe(t *testing.T) {
	fake := &fakeStorage{
		exists: true,
		citations: []common.Citation{
			edge(id("1"), id("2")),
			edge(id("2"), id("1")),
			edge(id("2"), id("9")),
		},
	}
	engine := NewEngine(fake)

	paths, err := engine.FindPaths(context.Background(), id("1"), id("9"), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{id("1"), id("2"), id("9")}}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("unexpected paths through cycle: got %v, want %v", paths, want)
	}
}

func TestFindPaths_DepthBound(t *testing.T) {
	// Chain longer than maxDepth: no path may exceed maxDepth+1 nodes.
	fake := &fakeStorage{
		exists: true,
		citations: []common.Citation{
			edge(id("1"), id("2")),
			edge(id("2"), id("3")),
			edge(id("3"), id("4")),
			edge(id("4"), id("9")),
		},
	}
	engine := NewEngine(fake)

	paths, err := engine.FindPaths(context.Background(), id("1"), id("9"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths within depth 2, got %v", paths)
	}

	paths, err = engine.FindPaths(context.Background(), id("1"), id("9"), 100)
	if err != nil {
		t.Fatalf("unexpected error with clamped depth: %v", err)
	}
	for _, p := range paths {
		if len(p) > MaxDepth+1 {
			t.Fatalf("path exceeds clamped depth: %v", p)
		}
	}
}

func TestFindPaths_MaxPathsCap(t *testing.T) {
	// A source with many distinct 2-hop routes to the target; the search
	// halts once five paths are collected.
	citations := []common.Citation{}
	for _, mid := range []string{"21", "22", "23", "24", "25", "26", "27"} {
		citations = append(citations,
			edge(id("1"), id(mid)),
			edge(id(mid), id("9")),
		)
	}
	engine := NewEngine(&fakeStorage{exists: true, citations: citations})

	paths, err := engine.FindPaths(context.Background(), id("1"), id("9"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 5 {
		t.Fatalf("expected search to stop at 5 paths, got %d", len(paths))
	}
}

func TestFindPaths_Errors(t *testing.T) {
	engine := NewEngine(&fakeStorage{exists: false})

	if _, err := engine.FindPaths(context.Background(), id("1"), id("9"), 3); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected store.ErrUnavailable, got %v", err)
	}

	engine = NewEngine(&fakeStorage{exists: true})
	if _, err := engine.FindPaths(context.Background(), "bogus", id("9"), 3); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for bad source, got %v", err)
	}
	if _, err := engine.FindPaths(context.Background(), id("1"), "bogus", 3); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for bad target, got %v", err)
	}
	if _, err := engine.FindPaths(context.Background(), id("1"), id("9"), 0); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for zero depth, got %v", err)
	}
}

func TestFindPaths_NoPath(t *testing.T) {
	fake := &fakeStorage{
		exists: true,
		citations: []common.Citation{
			edge(id("1"), id("2")),
		},
	}
	engine := NewEngine(fake)

	paths, err := engine.FindPaths(context.Background(), id("1"), id("9"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths, got %v", paths)
	}
}

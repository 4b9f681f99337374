package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/statref/uscite/pkg/cite"
	"github.com/statref/uscite/pkg/common"
	"github.com/statref/uscite/pkg/loader"
	"github.com/statref/uscite/pkg/loader/uslm"
	"github.com/statref/uscite/pkg/logger"
	"github.com/statref/uscite/pkg/store"

	"golang.org/x/sync/errgroup"
)

// Report summarizes one index run. A run that skipped files still
// succeeds; one bad title file never aborts the batch.
type Report struct {
	FilesIndexed      int
	FilesFailed       int
	CitationsFound    int
	CitationsInserted int64
}

// BuildGraph scans the provided corpus files for citations and commits the
// resulting edges into storage. Extraction fans out across files (each
// file's edge list is independent); the commit phase is serialized by a
// mutex so the store sees a single writer. Files that fail to load or
// parse are logged and skipped, and counted in the report.
//
// The build is idempotent: running it again over unchanged input inserts
// nothing new.
func (g *IndexClient) BuildGraph(
	ctx context.Context,
	files []loader.CorpusFile,
	storeClient store.CitationStorage,
) (*Report, error) {
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelFiles)
	mutex := sync.Mutex{}

	report := &Report{}

	logger.Info("[Graph] Building citation graph", "total_files", len(files))

	for _, file := range files {
		f := file
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
				citations, err := extractFileCitations(gCtx, f)

				mutex.Lock()
				defer mutex.Unlock()

				if err != nil {
					logger.Warn("[Graph] Skipping corpus file", "file", f.FilePath, "err", err)
					report.FilesFailed++
					return nil
				}

				inserted, err := storeClient.SaveCitations(gCtx, citations)
				if err != nil {
					return fmt.Errorf("failed to save citations: %w", err)
				}

				report.FilesIndexed++
				report.CitationsFound += len(citations)
				report.CitationsInserted += inserted
				return nil
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return report, fmt.Errorf("failed to build citation graph:\n%w", err)
	}

	logger.Info(
		"[Graph] Citation graph build completed",
		"files_indexed", report.FilesIndexed,
		"files_failed", report.FilesFailed,
		"citations_found", report.CitationsFound,
		"citations_inserted", report.CitationsInserted,
	)

	return report, nil
}

// extractFileCitations loads and parses one USLM title file and returns
// its outgoing citation edges. Self-citations are dropped here, after
// normalization, so the extractor itself stays source-agnostic.
func extractFileCitations(ctx context.Context, f loader.CorpusFile) ([]common.Citation, error) {
	data, err := f.Loader.GetFileText(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus file: %w", err)
	}

	doc, err := uslm.Parse(data)
	if err != nil {
		return nil, err
	}

	var citations []common.Citation
	for _, sec := range doc.Sections {
		if sec.Identifier == "" {
			continue
		}
		sourceSection := sec.SectionNumber()

		for _, m := range cite.Extract(sec.Text, doc.TitleNumber) {
			targetIdentifier := cite.Normalize(m.TargetTitle, m.TargetSection)
			if targetIdentifier == sec.Identifier {
				continue
			}

			citations = append(citations, common.Citation{
				SourceTitle:      doc.TitleNumber,
				SourceSection:    sourceSection,
				SourceIdentifier: sec.Identifier,
				TargetTitle:      m.TargetTitle,
				TargetSection:    m.TargetSection,
				TargetIdentifier: targetIdentifier,
				CitationText:     m.Text,
			})
		}
	}

	return citations, nil
}

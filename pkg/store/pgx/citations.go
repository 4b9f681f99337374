package pgx

import (
	"context"
	"fmt"

	"github.com/statref/uscite/internal/util"
	"github.com/statref/uscite/pkg/common"
	"github.com/statref/uscite/pkg/logger"
	"github.com/statref/uscite/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
)

const insertCitationSQL = `
INSERT INTO citations
	(source_title, source_section, source_identifier,
	 target_title, target_section, target_identifier, citation_text)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (source_identifier, target_identifier, citation_text) DO NOTHING`

// SaveCitations persists a batch of citation edges. Duplicate
// (source, target, citation_text) triples are skipped by the unique
// constraint, so re-indexing an unchanged corpus never grows the table.
// Returns the number of rows actually inserted.
func (s *CitationDBStorage) SaveCitations(ctx context.Context, citations []common.Citation) (int64, error) {
	if len(citations) == 0 {
		return 0, nil
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	const chunkSize = 500

	var inserted int64
	err := store.ChunkRange(len(citations), chunkSize, func(start, end int) error {
		batch := &pgxv5.Batch{}
		for _, c := range citations[start:end] {
			batch.Queue(
				insertCitationSQL,
				c.SourceTitle,
				c.SourceSection,
				c.SourceIdentifier,
				c.TargetTitle,
				c.TargetSection,
				c.TargetIdentifier,
				util.SanitizePostgresText(c.CitationText),
			)
		}

		logger.Debug("[Store][SaveCitations] Writing chunk", "citations", end-start)

		results := s.conn.SendBatch(ctx, batch)
		defer results.Close()

		for range citations[start:end] {
			tag, err := results.Exec()
			if err != nil {
				return err
			}
			inserted += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return inserted, fmt.Errorf("failed to save citations: %w", err)
	}

	return inserted, nil
}

// CitedBy returns the sections that cite identifier.
func (s *CitationDBStorage) CitedBy(ctx context.Context, identifier string, limit int32) ([]common.RelatedSection, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT DISTINCT source_identifier, source_title, source_section, citation_text
		FROM citations
		WHERE target_identifier = $1
		LIMIT $2`,
		identifier, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query citing sections: %w", err)
	}
	return scanRelated(rows, "cited_by")
}

// Cites returns the sections that identifier cites.
func (s *CitationDBStorage) Cites(ctx context.Context, identifier string, limit int32) ([]common.RelatedSection, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT DISTINCT target_identifier, target_title, target_section, citation_text
		FROM citations
		WHERE source_identifier = $1
		LIMIT $2`,
		identifier, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cited sections: %w", err)
	}
	return scanRelated(rows, "cites")
}

// TargetsOf returns the distinct identifiers that identifier cites. Used by
// path search, which only needs adjacency, not edge metadata.
func (s *CitationDBStorage) TargetsOf(ctx context.Context, identifier string) ([]string, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT DISTINCT target_identifier
		FROM citations
		WHERE source_identifier = $1`,
		identifier,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query citation targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

func scanRelated(rows pgxv5.Rows, relationship string) ([]common.RelatedSection, error) {
	defer rows.Close()

	results := make([]common.RelatedSection, 0)
	for rows.Next() {
		var rel common.RelatedSection
		if err := rows.Scan(&rel.Identifier, &rel.Title, &rel.Section, &rel.CitationText); err != nil {
			return nil, err
		}
		rel.Relationship = relationship
		results = append(results, rel)
	}
	return results, rows.Err()
}

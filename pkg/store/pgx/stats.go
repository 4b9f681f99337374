package pgx

import (
	"context"
	"fmt"

	"github.com/statref/uscite/pkg/common"
)

// Stats aggregates graph-wide totals plus the ten most cited and most
// citing sections, ranked by raw edge counts.
func (s *CitationDBStorage) Stats(ctx context.Context) (*common.Stats, error) {
	stats := &common.Stats{}

	err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM citations`).Scan(&stats.TotalCitations)
	if err != nil {
		return nil, fmt.Errorf("failed to count citations: %w", err)
	}

	err = s.conn.QueryRow(ctx, `SELECT COUNT(DISTINCT source_identifier) FROM citations`).Scan(&stats.CitingSections)
	if err != nil {
		return nil, fmt.Errorf("failed to count citing sections: %w", err)
	}

	err = s.conn.QueryRow(ctx, `SELECT COUNT(DISTINCT target_identifier) FROM citations`).Scan(&stats.CitedSections)
	if err != nil {
		return nil, fmt.Errorf("failed to count cited sections: %w", err)
	}

	stats.MostCited, err = s.topSections(ctx, `
		SELECT target_identifier, MIN(target_title), MIN(target_section), COUNT(*) AS cnt
		FROM citations
		GROUP BY target_identifier
		ORDER BY cnt DESC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to rank most cited sections: %w", err)
	}

	stats.MostCiting, err = s.topSections(ctx, `
		SELECT source_identifier, MIN(source_title), MIN(source_section), COUNT(*) AS cnt
		FROM citations
		GROUP BY source_identifier
		ORDER BY cnt DESC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to rank most citing sections: %w", err)
	}

	return stats, nil
}

func (s *CitationDBStorage) topSections(ctx context.Context, sql string) ([]common.RankedSection, error) {
	rows, err := s.conn.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranked := make([]common.RankedSection, 0, 10)
	for rows.Next() {
		var r common.RankedSection
		if err := rows.Scan(&r.Identifier, &r.Title, &r.Section, &r.Count); err != nil {
			return nil, err
		}
		ranked = append(ranked, r)
	}
	return ranked, rows.Err()
}

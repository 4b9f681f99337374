package common

// Citation represents a directed reference from one US Code section to
// another, discovered by pattern matching over section text.
//
// Source and target are kept both as canonical identifiers (for graph
// operations) and as their (title, section) decomposition (for display and
// ranking). CitationText holds the verbatim matched substring so every edge
// stays auditable back to the text it was extracted from.
type Citation struct {
	SourceTitle      string `json:"source_title"`
	SourceSection    string `json:"source_section"`
	SourceIdentifier string `json:"source_identifier"`
	TargetTitle      string `json:"target_title"`
	TargetSection    string `json:"target_section"`
	TargetIdentifier string `json:"target_identifier"`
	CitationText     string `json:"citation_text"`
}

// RelatedSection is one endpoint of a citation edge, seen from the section
// being looked up. Relationship is either "cites" or "cited_by".
type RelatedSection struct {
	Identifier   string `json:"identifier"`
	Title        string `json:"title"`
	Section      string `json:"section"`
	Relationship string `json:"relationship"`
	CitationText string `json:"citation_text"`
}

// RankedSection is a section together with its citation count, used in the
// most-cited / most-citing leaderboards.
type RankedSection struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Section    string `json:"section"`
	Count      int64  `json:"count"`
}

// Stats summarizes the citation graph as a whole.
type Stats struct {
	TotalCitations int64           `json:"total_citations"`
	CitingSections int64           `json:"citing_sections"`
	CitedSections  int64           `json:"cited_sections"`
	MostCited      []RankedSection `json:"most_cited"`
	MostCiting     []RankedSection `json:"most_citing"`
}

// RelatedResult groups both citation directions for a single section.
type RelatedResult struct {
	CitedBy      []RelatedSection `json:"cited_by"`
	Cites        []RelatedSection `json:"cites"`
	TotalCitedBy int              `json:"total_cited_by"`
	TotalCites   int              `json:"total_cites"`
}

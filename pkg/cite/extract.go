package cite

import (
	"regexp"
)

// Match is a single raw citation found in section text, before
// normalization and self-reference filtering.
type Match struct {
	TargetTitle   string
	TargetSection string
	// Text is the verbatim matched substring, original case preserved.
	Text string
}

// The shape of a pattern decides which capture group holds the title and
// which holds the section, and whether the title comes from the source
// section instead of the text.
type patternKind int

const (
	// "section 101 of title 17": group 1 = section, group 2 = title
	kindSectionOfTitle patternKind = iota
	// "17 U.S.C. § 101": group 1 = title, group 2 = section
	kindUSC
	// "title 17, section 101": group 1 = title, group 2 = section
	kindTitleSection
	// "section(s) 101 ... of this title": group 1 = section, title = source
	kindThisTitle
)

type citationPattern struct {
	re   *regexp.Regexp
	kind patternKind
}

// The five reference shapes that occur in US Code text. Keywords match
// case-insensitively; section numbers may carry a letter suffix ("101a")
// and parenthesized subsections ("101(a)(2)"), which Normalize strips
// later. The range pattern captures only the first section of the range;
// expanding "sections 102 through 105" into individual edges is out of
// scope, so a range contributes a single edge to its starting section.
var citationPatterns = []citationPattern{
	{
		re:   regexp.MustCompile(`(?i)section\s+(\d+[a-z]?(?:\([a-z0-9]+\))*)\s+of\s+title\s+(\d+)`),
		kind: kindSectionOfTitle,
	},
	{
		re:   regexp.MustCompile(`(?i)(\d+)\s+U\.?S\.?C\.?\s*§?\s*(\d+[a-z]?(?:\([a-z0-9]+\))*)`),
		kind: kindUSC,
	},
	{
		re:   regexp.MustCompile(`(?i)title\s+(\d+),?\s+section\s+(\d+[a-z]?(?:\([a-z0-9]+\))*)`),
		kind: kindTitleSection,
	},
	{
		re:   regexp.MustCompile(`(?i)sections?\s+(\d+[a-z]?)\s+(?:through|to|and)\s+\d+[a-z]?\s+of\s+this\s+title`),
		kind: kindThisTitle,
	},
	{
		re:   regexp.MustCompile(`(?i)section\s+(\d+[a-z]?(?:\([a-z0-9]+\))*)\s+of\s+this\s+title`),
		kind: kindThisTitle,
	},
}

// Extract scans section text for citation references and returns the raw
// matches. All patterns run independently over the full text; a phrase can
// satisfy at most one pattern because each anchors on different keywords.
// Matches that resolve to an empty title or section are dropped here;
// self-references are the caller's concern since only the caller knows the
// source section's identifier.
func Extract(text, sourceTitle string) []Match {
	var matches []Match

	for _, p := range citationPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			var title, section string

			switch p.kind {
			case kindSectionOfTitle:
				section, title = m[1], m[2]
			case kindUSC, kindTitleSection:
				title, section = m[1], m[2]
			case kindThisTitle:
				section, title = m[1], sourceTitle
			}

			if title == "" || section == "" {
				continue
			}

			matches = append(matches, Match{
				TargetTitle:   title,
				TargetSection: section,
				Text:          m[0],
			})
		}
	}

	return matches
}

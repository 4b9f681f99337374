package cite

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	subsectionRe = regexp.MustCompile(`\([a-z0-9]+\)`)
	identifierRe = regexp.MustCompile(`^/us/usc/t(\d+)/s([0-9a-zA-Z.\-]+)$`)
	sectionRe    = regexp.MustCompile(`/s(\d+[a-z]?)`)
)

// Normalize canonicalizes a (title, section) pair into a stable identifier
// like "/us/usc/t17/s101". Any parenthesized subsection suffix is stripped
// from the section, so "101(a)(2)" and "101" normalize to the same
// identifier. Subsection granularity is intentionally discarded; the graph
// is section-level only.
func Normalize(title, section string) string {
	base := strings.TrimSpace(subsectionRe.ReplaceAllString(section, ""))
	return fmt.Sprintf("/us/usc/t%s/s%s", strings.TrimSpace(title), base)
}

// ValidIdentifier reports whether identifier has the canonical
// "/us/usc/t{title}/s{section}" shape.
func ValidIdentifier(identifier string) bool {
	return identifierRe.MatchString(identifier)
}

// SplitIdentifier breaks a canonical identifier back into its title and
// section parts. Returns empty strings if the identifier is malformed.
func SplitIdentifier(identifier string) (title, section string) {
	m := identifierRe.FindStringSubmatch(identifier)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// SectionFromIdentifier extracts the bare section number from an identifier
// that may carry extra path segments, e.g. USLM identifiers like
// "/us/usc/t10/ptI/ch1/s101". Returns "" when no section segment is found.
func SectionFromIdentifier(identifier string) string {
	m := sectionRe.FindStringSubmatch(identifier)
	if m == nil {
		return ""
	}
	return m[1]
}

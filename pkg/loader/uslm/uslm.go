// Package uslm parses United States Legislative Markup (USLM) XML, the
// format the Office of the Law Revision Counsel publishes the US Code in.
// It flattens each section element into plain text suitable for citation
// scanning.
package uslm

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/statref/uscite/pkg/cite"
)

// Section is one section of a US Code title, flattened to plain text.
type Section struct {
	// Identifier is the USLM identifier attribute, e.g. "/us/usc/t10/s101".
	Identifier string
	// Text is the section's full text with all markup removed and
	// whitespace collapsed. Inline elements like <ref> are flattened in
	// document order so citation phrases spanning markup stay intact.
	Text string
}

// Document is the parsed content of one USLM title file.
type Document struct {
	// TitleNumber is the title's number, e.g. "10".
	TitleNumber string
	Sections    []Section
}

var (
	digitsRe = regexp.MustCompile(`\d+`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Parse reads a USLM XML document and returns its title number and
// sections. Elements are matched by local name, ignoring the USLM
// namespace. Returns an error on malformed XML; a document without any
// sections parses successfully into an empty Document.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	doc := &Document{}

	var (
		text            strings.Builder
		depth           int
		inSection       bool
		current         Section
		inTitle         bool
		captureTitleNum bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse USLM document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if inSection {
				depth++
				continue
			}
			switch t.Name.Local {
			case "title":
				inTitle = true
			case "num":
				if inTitle && doc.TitleNumber == "" {
					for _, attr := range t.Attr {
						if attr.Name.Local == "value" && attr.Value != "" {
							doc.TitleNumber = attr.Value
						}
					}
					// No value attribute: pull the number out of the
					// element text instead ("Title 10—" style headings).
					captureTitleNum = doc.TitleNumber == ""
				}
			case "section":
				inSection = true
				depth = 1
				text.Reset()
				current = Section{}
				for _, attr := range t.Attr {
					if attr.Name.Local == "identifier" {
						current.Identifier = attr.Value
					}
				}
			}

		case xml.EndElement:
			if inSection {
				depth--
				if depth == 0 {
					inSection = false
					current.Text = collapseSpace(text.String())
					doc.Sections = append(doc.Sections, current)
				}
				continue
			}
			if t.Name.Local == "title" {
				inTitle = false
			}
			captureTitleNum = false

		case xml.CharData:
			if inSection {
				text.Write(t)
				text.WriteByte(' ')
				continue
			}
			if captureTitleNum {
				if digits := digitsRe.FindString(string(t)); digits != "" {
					doc.TitleNumber = digits
					captureTitleNum = false
				}
			}
		}
	}

	// Some snapshots omit the title header entirely; fall back to the
	// first section identifier.
	if doc.TitleNumber == "" {
		for _, sec := range doc.Sections {
			if t := titleFromIdentifier(sec.Identifier); t != "" {
				doc.TitleNumber = t
				break
			}
		}
	}

	return doc, nil
}

var titleIDRe = regexp.MustCompile(`/t(\d+)`)

func titleFromIdentifier(identifier string) string {
	m := titleIDRe.FindStringSubmatch(identifier)
	if m == nil {
		return ""
	}
	return m[1]
}

// SectionNumber returns the bare section number for a parsed section.
func (s Section) SectionNumber() string {
	return cite.SectionFromIdentifier(s.Identifier)
}

func collapseSpace(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

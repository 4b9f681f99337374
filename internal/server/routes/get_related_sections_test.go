package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/statref/uscite/internal/server/routes"
	"github.com/statref/uscite/pkg/common"
)

func TestGetRelatedSectionsHandler_CanonicalIdentifierEchoed(t *testing.T) {
	storage := &testStorage{
		exists: true,
		citations: []common.Citation{
			{
				SourceTitle:      "35",
				SourceSection:    "287",
				SourceIdentifier: "/us/usc/t35/s287",
				TargetTitle:      "17",
				TargetSection:    "101",
				TargetIdentifier: "/us/usc/t17/s101",
				CitationText:     "section 101 of title 17",
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/citations/related/17/101(a)", nil)
	rec := httptest.NewRecorder()

	cc := newTestContext(t, req, rec, storage)
	cc.SetParamNames("title", "section")
	cc.SetParamValues("17", "101(a)")

	if err := routes.GetRelatedSectionsHandler(cc); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Identifier   string                  `json:"identifier"`
		Title        string                  `json:"title"`
		Section      string                  `json:"section"`
		CitedBy      []common.RelatedSection `json:"cited_by"`
		Cites        []common.RelatedSection `json:"cites"`
		TotalCitedBy int                     `json:"total_cited_by"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// The subsection suffix is stripped during normalization and the
	// response reports the canonical decomposition.
	if resp.Identifier != "/us/usc/t17/s101" {
		t.Fatalf("unexpected identifier %q", resp.Identifier)
	}
	if resp.Title != "17" || resp.Section != "101" {
		t.Fatalf("unexpected canonical decomposition: title=%q section=%q", resp.Title, resp.Section)
	}
	if resp.TotalCitedBy != 1 || len(resp.CitedBy) != 1 {
		t.Fatalf("expected one citing section, got %+v", resp)
	}
	if resp.CitedBy[0].Identifier != "/us/usc/t35/s287" {
		t.Fatalf("unexpected citing section: %+v", resp.CitedBy[0])
	}
}

func TestGetRelatedSectionsHandler_EmptyWhenStoreMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/citations/related/17/101", nil)
	rec := httptest.NewRecorder()

	cc := newTestContext(t, req, rec, &testStorage{exists: false})
	cc.SetParamNames("title", "section")
	cc.SetParamValues("17", "101")

	if err := routes.GetRelatedSectionsHandler(cc); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		CitedBy []common.RelatedSection `json:"cited_by"`
		Cites   []common.RelatedSection `json:"cites"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CitedBy == nil || resp.Cites == nil || len(resp.CitedBy) != 0 || len(resp.Cites) != 0 {
		t.Fatalf("expected empty lists, got %+v", resp)
	}
}
